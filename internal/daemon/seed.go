package daemon

import (
	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/uniuri"

	"github.com/rs/zerolog/log"
)

const generatedPasswordLen = 16

// seed creates the default roles and the initial admin account on an empty
// database. The admin password is generated and logged once; it must be
// rotated at first login.
func seed(_ *config.Config, db *gorm.DB) {
	var roleCount int64

	db.Model(&models.Role{}).Count(&roleCount)

	if roleCount == 0 {
		for _, role := range defaultRoles() {
			if err := db.Create(role).Error; err != nil {
				log.Error().Err(err).Str("role", role.Name).Msg("failed to seed role")
			}
		}
	}

	var userCount int64

	db.Model(&models.User{}).Count(&userCount)

	if userCount == 0 {
		var adminRole models.Role
		if err := db.Where("name = ?", "administrator").First(&adminRole).Error; err != nil {
			log.Error().Err(err).Msg("failed to load seeded administrator role")
			return
		}

		password := uniuri.NewLen(generatedPasswordLen)

		err := db.Create(
			&models.User{
				Username: "admin",
				Email:    "admin@localhost",
				Password: models.HashPassword(password),
				Active:   true,
				RoleID:   &adminRole.ID,
			},
		).Error
		if err != nil {
			log.Error().Err(err).Msg("failed to seed admin user")
			return
		}

		log.Warn().Str("username", "admin").Str("password", password).
			Msg("seeded initial admin account, rotate this password")
	}
}

// defaultRoles returns the seeded role set: an unconstrained administrator,
// a mid-rank manager deciding for direct reports, and a plain employee.
func defaultRoles() []*models.Role {
	return []*models.Role{
		{
			Name:          "administrator",
			DisplayName:   "Administrator",
			HierarchyRank: 0,

			ApproveLeave:         models.ScopeAll,
			ApproveOnDuty:        models.ScopeAll,
			ApproveTimeOff:       models.ScopeAll,
			ManageUsers:          models.ScopeAll,
			ViewUsers:            models.ScopeAll,
			ViewReports:          models.ScopeAll,
			ManageActiveOnDuty:   models.ScopeAll,
			ManageSchedule:       models.ScopeAll,
			ViewActivities:       models.ScopeAll,
			ManageSystemSettings: models.ScopeAll,

			AccessWebApplication: true,
			ManageLeaveTypes:     true,
			ManageRoles:          true,
			ManageEmailSettings:  true,
		},
		{
			Name:          "manager",
			DisplayName:   "Manager",
			HierarchyRank: 3,

			ApproveLeave:         models.ScopeSubordinates,
			ApproveOnDuty:        models.ScopeSubordinates,
			ApproveTimeOff:       models.ScopeSubordinates,
			ManageUsers:          models.ScopeNone,
			ViewUsers:            models.ScopeSubordinates,
			ViewReports:          models.ScopeSubordinates,
			ManageActiveOnDuty:   models.ScopeSubordinates,
			ManageSchedule:       models.ScopeSubordinates,
			ViewActivities:       models.ScopeSubordinates,
			ManageSystemSettings: models.ScopeNone,

			AccessWebApplication: true,
		},
		{
			Name:          "employee",
			DisplayName:   "Employee",
			HierarchyRank: 5,

			ApproveLeave:         models.ScopeNone,
			ApproveOnDuty:        models.ScopeNone,
			ApproveTimeOff:       models.ScopeNone,
			ManageUsers:          models.ScopeNone,
			ViewUsers:            models.ScopeNone,
			ViewReports:          models.ScopeNone,
			ManageActiveOnDuty:   models.ScopeNone,
			ManageSchedule:       models.ScopeNone,
			ViewActivities:       models.ScopeNone,
			ManageSystemSettings: models.ScopeNone,
		},
	}
}
