package rule

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/approval"
)

// RepositoryAPI defines the data access methods for approval rules.
type RepositoryAPI interface {
	Create(rule *approval.Rule) error
	GetByID(id int64) (*approval.Rule, error)
	GetForTenant(tenantID int64) ([]*approval.Rule, error)
	GetActiveForDocumentType(tenantID int64, documentType string) ([]*approval.Rule, error)
	ReplaceLevels(ruleID int64, levels []approval.Level) error
	Update(rule *approval.Rule) error
	Deactivate(id int64) error
	HasWorkflows(ruleID int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateRule(tenantID int64, dto CreateRuleDTO) (*approval.Rule, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("rule validation failed", "error", err, "tenant_id", tenantID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	rule := &approval.Rule{
		TenantID:     tenantID,
		Name:         dto.Name,
		DocumentType: dto.DocumentType,
		MinAmount:    dto.MinAmount,
		MaxAmount:    dto.MaxAmount,
		Category:     dto.Category,
		IsActive:     true,
		Levels:       levelsFromDTO(dto.Levels),
	}

	if err := s.repo.Create(rule); err != nil {
		s.logger.Error("failed to create rule", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	s.logger.Info("approval rule created",
		"rule_id", rule.ID,
		"tenant_id", tenantID,
		"document_type", rule.DocumentType,
		"levels", len(rule.Levels))

	return rule, nil
}

func (s *Service) GetRule(tenantID, ruleID int64) (*approval.Rule, error) {
	rule, err := s.repo.GetByID(ruleID)
	if err != nil {
		s.logger.Error("failed to get rule", "error", err, "rule_id", ruleID)
		return nil, err
	}
	if rule == nil || rule.TenantID != tenantID {
		return nil, internal.ErrRuleNotFound
	}
	return rule, nil
}

func (s *Service) ListRules(tenantID int64) ([]*approval.Rule, error) {
	rules, err := s.repo.GetForTenant(tenantID)
	if err != nil {
		s.logger.Error("failed to list rules", "error", err, "tenant_id", tenantID)
		return nil, err
	}
	return rules, nil
}

// UpdateRule mutates rule metadata and optionally replaces the level
// chain. Once a workflow has been started from a rule its levels are
// frozen; only metadata edits (name, active flag, selectors) pass
// through, so in-flight workflows keep the chain they were built from.
func (s *Service) UpdateRule(tenantID, ruleID int64, dto UpdateRuleDTO) (*approval.Rule, error) {
	rule, err := s.GetRule(tenantID, ruleID)
	if err != nil {
		return nil, err
	}

	if dto.Levels != nil {
		inUse, err := s.repo.HasWorkflows(ruleID)
		if err != nil {
			s.logger.Error("failed to check rule usage", "error", err, "rule_id", ruleID)
			return nil, err
		}
		if inUse {
			s.logger.Warn("rejected level edit on rule with workflows", "rule_id", ruleID)
			return nil, internal.ErrRuleInUse
		}
	}

	if dto.Name != nil {
		rule.Name = *dto.Name
	}
	if dto.MinAmount != nil {
		rule.MinAmount = dto.MinAmount
	}
	if dto.MaxAmount != nil {
		rule.MaxAmount = dto.MaxAmount
	}
	if dto.Category != nil {
		rule.Category = dto.Category
	}
	if dto.IsActive != nil {
		rule.IsActive = *dto.IsActive
	}
	if rule.MinAmount != nil && rule.MaxAmount != nil && *rule.MinAmount > *rule.MaxAmount {
		return nil, internal.NewValidationError("min_amount cannot exceed max_amount", internal.ErrCodeValidationFailed)
	}
	rule.UpdatedAt = time.Now()

	if err := s.repo.Update(rule); err != nil {
		s.logger.Error("failed to update rule", "error", err, "rule_id", ruleID)
		return nil, err
	}

	if dto.Levels != nil {
		levels := levelsFromDTO(*dto.Levels)
		if err := s.repo.ReplaceLevels(ruleID, levels); err != nil {
			s.logger.Error("failed to replace rule levels", "error", err, "rule_id", ruleID)
			return nil, err
		}
		rule.Levels = levels
	}

	s.logger.Info("approval rule updated", "rule_id", ruleID, "tenant_id", tenantID)
	return rule, nil
}

// DeleteRule deactivates the rule so it no longer matches new
// documents. Rules referenced by workflows are never hard-deleted.
func (s *Service) DeleteRule(tenantID, ruleID int64) error {
	if _, err := s.GetRule(tenantID, ruleID); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ruleID); err != nil {
		s.logger.Error("failed to deactivate rule", "error", err, "rule_id", ruleID)
		return err
	}

	s.logger.Info("approval rule deactivated", "rule_id", ruleID, "tenant_id", tenantID)
	return nil
}

// MatchRule finds the active rule applying to a document, or nil when
// none matches. Among multiple matches the most specific wins: an
// explicit category beats a wildcard, then tighter amount bounds beat
// open ones, then the most recently created rule.
func (s *Service) MatchRule(tenantID int64, documentType string, amount int64, category string) (*approval.Rule, error) {
	candidates, err := s.repo.GetActiveForDocumentType(tenantID, documentType)
	if err != nil {
		s.logger.Error("failed to load rules for matching", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	var best *approval.Rule
	bestScore := -1
	for _, candidate := range candidates {
		if !candidate.Matches(documentType, amount, category) {
			continue
		}
		score := specificity(candidate)
		if score > bestScore || (score == bestScore && best != nil && candidate.CreatedAt.After(best.CreatedAt)) {
			best = candidate
			bestScore = score
		}
	}

	if best == nil {
		s.logger.Info("no rule matched document",
			"tenant_id", tenantID,
			"document_type", documentType,
			"amount", amount,
			"category", category)
		return nil, nil
	}

	s.logger.Info("rule matched document",
		"rule_id", best.ID,
		"tenant_id", tenantID,
		"document_type", documentType)
	return best, nil
}

func specificity(r *approval.Rule) int {
	score := 0
	if r.Category != nil {
		score += 4
	}
	if r.MinAmount != nil {
		score++
	}
	if r.MaxAmount != nil {
		score++
	}
	return score
}

func levelsFromDTO(dtos []CreateLevelDTO) []approval.Level {
	levels := make([]approval.Level, 0, len(dtos))
	for _, l := range dtos {
		levelType := l.LevelType
		if levelType == "" {
			levelType = approval.LevelTypeGeneral
		}
		level := approval.Level{
			LevelOrder: l.LevelOrder,
			Mode:       l.Mode,
			LevelType:  levelType,
		}
		for _, a := range l.Approvers {
			level.Approvers = append(level.Approvers, approval.ApproverSpec{
				SpecType: a.SpecType,
				UserID:   a.UserID,
				RoleID:   a.RoleID,
			})
		}
		levels = append(levels, level)
	}
	return levels
}
