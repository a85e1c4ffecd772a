package services

import (
	"github.com/prepwise/interview-service/internal/models"
)

// CategoryPolicy chooses the question category for the next question of a
// session. One policy exists per session type; selection is deterministic
// in the question index so a session's category mix is reproducible.
type CategoryPolicy interface {
	Name() string
	CategoryFor(session *models.Session) models.QuestionCategory
}

// patternPolicy cycles through a fixed weighted pattern of categories.
type patternPolicy struct {
	name    string
	pattern []models.QuestionCategory
}

func (p *patternPolicy) Name() string {
	return p.name
}

func (p *patternPolicy) CategoryFor(session *models.Session) models.QuestionCategory {
	return p.pattern[session.CurrentQuestionIndex%len(p.pattern)]
}

// competencyPolicy fronts behavioral and leadership questions when role
// competencies are supplied, falling back to a balanced pattern otherwise.
type competencyPolicy struct {
	withCompetencies    []models.QuestionCategory
	withoutCompetencies []models.QuestionCategory
}

func (p *competencyPolicy) Name() string {
	return "role-based"
}

func (p *competencyPolicy) CategoryFor(session *models.Session) models.QuestionCategory {
	pattern := p.withoutCompetencies
	if len(session.RoleCompetencies) > 0 {
		pattern = p.withCompetencies
	}
	return pattern[session.CurrentQuestionIndex%len(pattern)]
}

var (
	technicalPolicy = &patternPolicy{
		name: "technical",
		pattern: []models.QuestionCategory{
			models.CategoryTechnical,
			models.CategoryTechnical,
			models.CategoryTechnical,
			models.CategoryProblemSolving,
		},
	}

	behavioralPolicy = &patternPolicy{
		name: "behavioral",
		pattern: []models.QuestionCategory{
			models.CategoryBehavioral,
			models.CategoryBehavioral,
			models.CategorySituational,
		},
	}

	mixedPolicy = &patternPolicy{
		name: "mixed",
		pattern: []models.QuestionCategory{
			models.CategoryTechnical,
			models.CategoryBehavioral,
			models.CategoryProblemSolving,
			models.CategorySituational,
		},
	}

	roleBasedPolicy = &competencyPolicy{
		withCompetencies: []models.QuestionCategory{
			models.CategoryBehavioral,
			models.CategoryLeadership,
			models.CategorySituational,
			models.CategoryTechnical,
		},
		withoutCompetencies: []models.QuestionCategory{
			models.CategoryBehavioral,
			models.CategorySituational,
			models.CategoryTechnical,
		},
	}

	jobSpecificPolicy = &patternPolicy{
		name: "job-specific",
		pattern: []models.QuestionCategory{
			models.CategoryTechnical,
			models.CategorySituational,
			models.CategoryTechnical,
			models.CategoryBehavioral,
		},
	}
)

// PolicyFor returns the category policy for a session type. Unknown types
// get the mixed policy.
func PolicyFor(sessionType models.SessionType) CategoryPolicy {
	switch sessionType {
	case models.SessionTechnical:
		return technicalPolicy
	case models.SessionBehavioral:
		return behavioralPolicy
	case models.SessionRoleBased:
		return roleBasedPolicy
	case models.SessionJobSpecific:
		return jobSpecificPolicy
	default:
		return mixedPolicy
	}
}
