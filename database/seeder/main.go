package main

import (
	"sync"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database/seeder/seeds"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/kernel"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/cli"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

func main() {
	cli.ClearScreen()

	environment, err := kernel.Ignite("./.env", portal.GetDefaultValidator())

	if err != nil {
		panic(err)
	}

	dbConnection := kernel.MakeDbConnection(environment)
	logs := kernel.MakeLogs(environment)

	defer logs.Close()
	defer dbConnection.Close()

	// [1] --- Create the Seeder Runner.
	seeder := seeds.MakeSeeder(dbConnection, environment)

	// [2] --- Truncate the db.
	if err := seeder.TruncateDB(); err != nil {
		panic(err)
	} else {
		cli.Successln("db Truncated successfully ...")
		time.Sleep(2 * time.Second)
	}

	// [3] --- Seed tenants first since the documents hang off them.
	cli.Warningln("Seeding tenants ...")
	demo, acme := seeder.SeedTenants()

	// [4] Use a WaitGroup to run the independent seeding tasks concurrently.
	var wg sync.WaitGroup
	wg.Add(2)

	documentsChan := make(chan []database.Document, 1)

	go func() {
		defer wg.Done()

		cli.Blueln("Seeding documents ...")
		documentsChan <- seeder.SeedDocuments(demo, acme)
	}()

	go func() {
		defer wg.Done()

		if err := seeder.SeedSettings(); err != nil {
			cli.Error(err.Error())
		} else {
			cli.Cyanln("Seeding settings ...")
		}
	}()

	wg.Wait()
	close(documentsChan)

	documents := <-documentsChan
	cli.Grayln("Seeded " + demo.Slug + " and " + acme.Slug + " tenants ...")

	for _, document := range documents {
		cli.Grayln("  - " + document.Slug)
	}

	cli.Magentaln("db seeded as expected ....")
}
