package seeds

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/gorm"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

type TenantsSeed struct {
	db *database.Connection
}

func MakeTenantsSeed(db *database.Connection) *TenantsSeed {
	return &TenantsSeed{
		db: db,
	}
}

// Create hashes the given passphrase and persists the tenant. Only the
// bcrypt hash is stored; the plain text exists for the operator running
// the seeder.
func (s TenantsSeed) Create(attrs database.TenantAttrs, passphrase string) (database.Tenant, error) {
	pass, err := portal.NewPassword(passphrase)
	if err != nil {
		return database.Tenant{}, fmt.Errorf("failed to hash seed passphrase: %w", err)
	}

	fake := database.Tenant{
		UUID:           uuid.NewString(),
		Slug:           portal.NewStringable(attrs.Slug).ToLower(),
		Name:           attrs.Name,
		PassphraseHash: pass.GetHash(),
		OTPRequired:    attrs.OTPRequired,
	}

	result := s.db.Sql().Create(&fake)

	if gorm.HasDbIssues(result.Error) {
		return database.Tenant{}, fmt.Errorf("issues creating tenants: %s", result.Error)
	}

	return fake, nil
}
