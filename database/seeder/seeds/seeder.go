package seeds

import (
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/env"
)

// Seeder wires the individual seeds behind one runner so the cmd can
// truncate and repopulate a development database in a single pass.
type Seeder struct {
	db        *database.Connection
	env       *env.Environment
	tenants   *TenantsSeed
	documents *DocumentsSeed
	settings  *SettingsSeed
}

func MakeSeeder(db *database.Connection, e *env.Environment) *Seeder {
	return &Seeder{
		db:        db,
		env:       e,
		tenants:   MakeTenantsSeed(db),
		documents: MakeDocumentsSeed(db),
		settings:  MakeSettingsSeed(db),
	}
}

func (s *Seeder) TruncateDB() error {
	return database.NewTruncate(s.db, s.env).Execute()
}

// SeedTenants creates the two demo tenants. The first requires the email
// code step after the passphrase, the second stops at the passphrase.
func (s *Seeder) SeedTenants() (database.Tenant, database.Tenant) {
	demo, err := s.tenants.Create(database.TenantAttrs{
		Slug:        "demo",
		Name:        "Demo Publishing",
		OTPRequired: true,
	}, "rosebud-motel-1962")

	if err != nil {
		panic(err)
	}

	acme, err := s.tenants.Create(database.TenantAttrs{
		Slug:        "acme",
		Name:        "Acme Holdings",
		OTPRequired: false,
	}, "correct-horse-battery")

	if err != nil {
		panic(err)
	}

	return demo, acme
}

func (s *Seeder) SeedDocuments(tenants ...database.Tenant) []database.Document {
	var all []database.Document

	for _, tenant := range tenants {
		documents, err := s.documents.Create(tenant)

		if err != nil {
			panic(err)
		}

		all = append(all, documents...)
	}

	return all
}

func (s *Seeder) SeedSettings() error {
	_, err := s.settings.Create()

	return err
}
