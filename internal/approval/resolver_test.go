package approval_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/procurement-portal/internal/approval"
)

var _ = Describe("Resolver", func() {
	var (
		resolver  *approval.Resolver
		directory *mockDirectory
		lookup    *mockDelegationLookup
		now       time.Time
	)

	BeforeEach(func() {
		directory = newMockDirectory()
		lookup = newMockDelegationLookup()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = approval.NewResolver(directory, lookup, logger)
		now = time.Now()
	})

	approverIDs := func(resolved []approval.ResolvedApprover) []int64 {
		var ids []int64
		for _, ra := range resolved {
			ids = append(ids, ra.ApproverID)
		}
		return ids
	}

	It("should resolve fixed user specs to active users only", func() {
		directory.activeUsers[100] = true
		directory.activeUsers[101] = false

		level := &approval.Level{ID: 1, Approvers: []approval.ApproverSpec{userSpec(100), userSpec(101)}}
		resolved, err := resolver.ResolveLevel(level, now)

		Expect(err).ToNot(HaveOccurred())
		Expect(approverIDs(resolved)).To(Equal([]int64{100}))
	})

	It("should expand a role spec to its active members", func() {
		directory.roleMembers[5] = []int64{100, 101, 102}

		level := &approval.Level{ID: 1, Approvers: []approval.ApproverSpec{roleSpec(5)}}
		resolved, err := resolver.ResolveLevel(level, now)

		Expect(err).ToNot(HaveOccurred())
		Expect(approverIDs(resolved)).To(ConsistOf(int64(100), int64(101), int64(102)))
	})

	It("should de-duplicate a user matched by both a user spec and a role spec", func() {
		directory.activeUsers[100] = true
		directory.roleMembers[5] = []int64{100, 101}

		level := &approval.Level{ID: 1, Approvers: []approval.ApproverSpec{userSpec(100), roleSpec(5)}}
		resolved, err := resolver.ResolveLevel(level, now)

		Expect(err).ToNot(HaveOccurred())
		Expect(resolved).To(HaveLen(2))
	})

	It("should return an empty set for an empty role", func() {
		level := &approval.Level{ID: 1, Approvers: []approval.ApproverSpec{roleSpec(5)}}
		resolved, err := resolver.ResolveLevel(level, now)

		Expect(err).ToNot(HaveOccurred())
		Expect(resolved).To(BeEmpty())
	})

	Context("with delegations", func() {
		It("should substitute an active delegate and keep the original reference", func() {
			directory.activeUsers[100] = true
			directory.activeUsers[200] = true
			lookup.delegations[100] = &approval.ActiveDelegation{ID: 1, DelegatorID: 100, DelegateID: 200}

			level := &approval.Level{ID: 1, Approvers: []approval.ApproverSpec{userSpec(100)}}
			resolved, err := resolver.ResolveLevel(level, now)

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved).To(HaveLen(1))
			Expect(resolved[0].ApproverID).To(Equal(int64(200)))
			Expect(resolved[0].DelegatedFrom).ToNot(BeNil())
			Expect(*resolved[0].DelegatedFrom).To(Equal(int64(100)))
		})

		It("should ignore a delegation whose delegate is deactivated", func() {
			directory.activeUsers[100] = true
			directory.activeUsers[200] = false
			lookup.delegations[100] = &approval.ActiveDelegation{ID: 1, DelegatorID: 100, DelegateID: 200}

			level := &approval.Level{ID: 1, Approvers: []approval.ApproverSpec{userSpec(100)}}
			resolved, err := resolver.ResolveLevel(level, now)

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved).To(HaveLen(1))
			Expect(resolved[0].ApproverID).To(Equal(int64(100)))
			Expect(resolved[0].DelegatedFrom).To(BeNil())
		})

		It("should keep a direct assignment when a delegation collides with it", func() {
			directory.activeUsers[100] = true
			directory.activeUsers[101] = true
			lookup.delegations[100] = &approval.ActiveDelegation{ID: 1, DelegatorID: 100, DelegateID: 101}

			level := &approval.Level{ID: 1, Approvers: []approval.ApproverSpec{userSpec(100), userSpec(101)}}
			resolved, err := resolver.ResolveLevel(level, now)

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved).To(HaveLen(1))
			Expect(resolved[0].ApproverID).To(Equal(int64(101)))
			Expect(resolved[0].DelegatedFrom).To(BeNil())
		})
	})
})
