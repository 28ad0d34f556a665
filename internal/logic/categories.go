package logic

import "github.com/playpredict/forecast-api/internal/models"

// categorySpec ties a category to the role that earns it and the play fields
// it reads. The defense table for the category is looked up by Category.
type categorySpec struct {
	category  models.Category
	role      models.Role
	yards     func(p *models.PlayRecord) *float64
	touchdown func(p *models.PlayRecord) bool
}

// categorySpecs is ordered by attribution precedence: a play is credited to
// the first role the player fills.
var categorySpecs = []categorySpec{
	{
		category:  models.CategoryRushing,
		role:      models.RoleRusher,
		yards:     func(p *models.PlayRecord) *float64 { return p.RushingYards },
		touchdown: func(p *models.PlayRecord) bool { return p.RushTouchdown },
	},
	{
		category:  models.CategoryReceiving,
		role:      models.RoleReceiver,
		yards:     func(p *models.PlayRecord) *float64 { return p.ReceivingYards },
		touchdown: func(p *models.PlayRecord) bool { return p.PassTouchdown },
	},
	{
		category:  models.CategoryPassing,
		role:      models.RolePasser,
		yards:     func(p *models.PlayRecord) *float64 { return p.PassingYards },
		touchdown: func(p *models.PlayRecord) bool { return p.PassTouchdown },
	},
}
