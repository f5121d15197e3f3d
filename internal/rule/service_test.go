package rule_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/approval"
	"github.com/frahmantamala/procurement-portal/internal/rule"
)

func TestRule(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rule Suite")
}

// Mock repository for testing
type mockRuleRepository struct {
	rules        map[int64]*approval.Rule
	workflowRefs map[int64]bool
	nextID       int64
	createError  error
	getError     error
}

func newMockRuleRepository() *mockRuleRepository {
	return &mockRuleRepository{
		rules:        make(map[int64]*approval.Rule),
		workflowRefs: make(map[int64]bool),
		nextID:       1,
	}
}

func (m *mockRuleRepository) Create(r *approval.Rule) error {
	if m.createError != nil {
		return m.createError
	}
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	m.rules[r.ID] = r
	return nil
}

func (m *mockRuleRepository) GetByID(id int64) (*approval.Rule, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.rules[id], nil
}

func (m *mockRuleRepository) GetForTenant(tenantID int64) ([]*approval.Rule, error) {
	var result []*approval.Rule
	for _, r := range m.rules {
		if r.TenantID == tenantID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRuleRepository) GetActiveForDocumentType(tenantID int64, documentType string) ([]*approval.Rule, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var result []*approval.Rule
	for _, r := range m.rules {
		if r.TenantID == tenantID && r.DocumentType == documentType && r.IsActive {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRuleRepository) ReplaceLevels(ruleID int64, levels []approval.Level) error {
	if r, exists := m.rules[ruleID]; exists {
		r.Levels = levels
	}
	return nil
}

func (m *mockRuleRepository) Update(r *approval.Rule) error {
	m.rules[r.ID] = r
	return nil
}

func (m *mockRuleRepository) Deactivate(id int64) error {
	if r, exists := m.rules[id]; exists {
		r.IsActive = false
	}
	return nil
}

func (m *mockRuleRepository) HasWorkflows(ruleID int64) (bool, error) {
	return m.workflowRefs[ruleID], nil
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

var _ = Describe("RuleService", func() {
	var (
		service  *rule.Service
		mockRepo *mockRuleRepository
	)

	tenantID := int64(1)

	validDTO := func() rule.CreateRuleDTO {
		return rule.CreateRuleDTO{
			Name:         "PO approvals",
			DocumentType: "purchase_order",
			Levels: []rule.CreateLevelDTO{
				{
					LevelOrder: 1,
					Mode:       approval.ModeAny,
					Approvers:  []rule.ApproverSpecDTO{{SpecType: approval.SpecTypeUser, UserID: int64Ptr(100)}},
				},
			},
		}
	}

	BeforeEach(func() {
		mockRepo = newMockRuleRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = rule.NewService(mockRepo, logger)
	})

	Describe("CreateRule", func() {
		It("should create a rule with its levels", func() {
			result, err := service.CreateRule(tenantID, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(BeNumerically(">", 0))
			Expect(result.IsActive).To(BeTrue())
			Expect(result.Levels).To(HaveLen(1))
			Expect(result.Levels[0].LevelType).To(Equal(approval.LevelTypeGeneral))
		})

		It("should reject a rule without levels", func() {
			dto := validDTO()
			dto.Levels = nil

			_, err := service.CreateRule(tenantID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("should reject an unknown quorum mode", func() {
			dto := validDTO()
			dto.Levels[0].Mode = "most"

			_, err := service.CreateRule(tenantID, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a user spec without a user reference", func() {
			dto := validDTO()
			dto.Levels[0].Approvers[0].UserID = nil

			_, err := service.CreateRule(tenantID, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject duplicate level orders", func() {
			dto := validDTO()
			dto.Levels = append(dto.Levels, dto.Levels[0])

			_, err := service.CreateRule(tenantID, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject min above max", func() {
			dto := validDTO()
			dto.MinAmount = int64Ptr(500)
			dto.MaxAmount = int64Ptr(100)

			_, err := service.CreateRule(tenantID, dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetRule", func() {
		It("should hide rules belonging to another tenant", func() {
			created, err := service.CreateRule(tenantID, validDTO())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.GetRule(2, created.ID)
			Expect(err).To(Equal(internal.ErrRuleNotFound))
		})
	})

	Describe("UpdateRule", func() {
		It("should allow metadata edits while workflows reference the rule", func() {
			created, err := service.CreateRule(tenantID, validDTO())
			Expect(err).ToNot(HaveOccurred())
			mockRepo.workflowRefs[created.ID] = true

			name := "renamed"
			updated, err := service.UpdateRule(tenantID, created.ID, rule.UpdateRuleDTO{Name: &name})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("renamed"))
		})

		It("should reject level edits once a workflow references the rule", func() {
			created, err := service.CreateRule(tenantID, validDTO())
			Expect(err).ToNot(HaveOccurred())
			mockRepo.workflowRefs[created.ID] = true

			levels := validDTO().Levels
			_, err = service.UpdateRule(tenantID, created.ID, rule.UpdateRuleDTO{Levels: &levels})

			Expect(err).To(Equal(internal.ErrRuleInUse))
		})

		It("should replace levels on an unused rule", func() {
			created, err := service.CreateRule(tenantID, validDTO())
			Expect(err).ToNot(HaveOccurred())

			levels := []rule.CreateLevelDTO{
				{LevelOrder: 1, Mode: approval.ModeAll, Approvers: []rule.ApproverSpecDTO{{SpecType: approval.SpecTypeRole, RoleID: int64Ptr(5)}}},
				{LevelOrder: 2, Mode: approval.ModeAny, Approvers: []rule.ApproverSpecDTO{{SpecType: approval.SpecTypeUser, UserID: int64Ptr(100)}}},
			}
			updated, err := service.UpdateRule(tenantID, created.ID, rule.UpdateRuleDTO{Levels: &levels})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Levels).To(HaveLen(2))
		})
	})

	Describe("DeleteRule", func() {
		It("should deactivate instead of removing", func() {
			created, err := service.CreateRule(tenantID, validDTO())
			Expect(err).ToNot(HaveOccurred())

			err = service.DeleteRule(tenantID, created.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.rules[created.ID]).ToNot(BeNil())
			Expect(mockRepo.rules[created.ID].IsActive).To(BeFalse())
		})
	})

	Describe("MatchRule", func() {
		addRule := func(name string, minAmount, maxAmount *int64, category *string) *approval.Rule {
			dto := validDTO()
			dto.Name = name
			dto.MinAmount = minAmount
			dto.MaxAmount = maxAmount
			dto.Category = category
			created, err := service.CreateRule(tenantID, dto)
			Expect(err).ToNot(HaveOccurred())
			return created
		}

		It("should return nil when no rule matches", func() {
			addRule("high value", int64Ptr(1000000), nil, nil)

			matched, err := service.MatchRule(tenantID, "purchase_order", 5000, "")

			Expect(err).ToNot(HaveOccurred())
			Expect(matched).To(BeNil())
		})

		It("should not match documents of another type", func() {
			addRule("po only", nil, nil, nil)

			matched, err := service.MatchRule(tenantID, "supplier_invoice", 5000, "")

			Expect(err).ToNot(HaveOccurred())
			Expect(matched).To(BeNil())
		})

		It("should prefer a category-specific rule over a wildcard", func() {
			addRule("wildcard", nil, nil, nil)
			specific := addRule("hardware", nil, nil, strPtr("it_hardware"))

			matched, err := service.MatchRule(tenantID, "purchase_order", 5000, "it_hardware")

			Expect(err).ToNot(HaveOccurred())
			Expect(matched.ID).To(Equal(specific.ID))
		})

		It("should prefer bounded amounts over open-ended rules", func() {
			addRule("open", nil, nil, nil)
			bounded := addRule("bounded", int64Ptr(1000), int64Ptr(10000), nil)

			matched, err := service.MatchRule(tenantID, "purchase_order", 5000, "")

			Expect(err).ToNot(HaveOccurred())
			Expect(matched.ID).To(Equal(bounded.ID))
		})

		It("should let a category rule beat an amount-bounded one", func() {
			addRule("bounded", int64Ptr(1000), int64Ptr(10000), nil)
			categorized := addRule("categorized", nil, nil, strPtr("it_hardware"))

			matched, err := service.MatchRule(tenantID, "purchase_order", 5000, "it_hardware")

			Expect(err).ToNot(HaveOccurred())
			Expect(matched.ID).To(Equal(categorized.ID))
		})

		It("should break specificity ties with the newest rule", func() {
			older := addRule("older", nil, nil, nil)
			mockRepo.rules[older.ID].CreatedAt = time.Now().Add(-time.Hour)
			newer := addRule("newer", nil, nil, nil)

			matched, err := service.MatchRule(tenantID, "purchase_order", 5000, "")

			Expect(err).ToNot(HaveOccurred())
			Expect(matched.ID).To(Equal(newer.ID))
		})

		It("should ignore deactivated rules", func() {
			created := addRule("soon gone", nil, nil, nil)
			Expect(service.DeleteRule(tenantID, created.ID)).To(Succeed())

			matched, err := service.MatchRule(tenantID, "purchase_order", 5000, "")

			Expect(err).ToNot(HaveOccurred())
			Expect(matched).To(BeNil())
		})
	})
})
