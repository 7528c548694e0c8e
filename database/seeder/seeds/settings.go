package seeds

import (
	"fmt"
	"strconv"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/guard"
)

type SettingsSeed struct {
	db *database.Connection
}

func MakeSettingsSeed(db *database.Connection) *SettingsSeed {
	return &SettingsSeed{
		db: db,
	}
}

// Create stores the default lockout policy so operators see the effective
// values in the admin panel before their first override.
func (s SettingsSeed) Create() ([]database.Setting, error) {
	policy := guard.DefaultPolicy()

	settings := []database.Setting{
		{
			Key:   guard.SettingThreshold,
			Value: strconv.Itoa(policy.Threshold),
		},
		{
			Key:   guard.SettingWindowMinutes,
			Value: strconv.Itoa(int(policy.Window.Minutes())),
		},
		{
			Key:   guard.SettingLockoutMinutes,
			Value: strconv.Itoa(int(policy.Lockout.Minutes())),
		},
	}

	result := s.db.Sql().Create(&settings)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("error seeding settings: %s", result.Error)
	}

	return settings, nil
}
