package main

import (
	"log/slog"
	baseHttp "net/http"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/metal/kernel"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/endpoint"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

func main() {
	validate := portal.GetDefaultValidator()

	environment, err := kernel.Ignite("./.env", validate)

	if err != nil {
		panic("could not read the application environment: " + err.Error())
	}

	app, err := kernel.MakeApp(environment, validate)

	if err != nil {
		panic("could not assemble the application: " + err.Error())
	}

	defer app.CloseDB()
	defer app.CloseLogs()
	defer app.CloseRedis()
	defer app.CloseTracing()

	app.Boot()

	addr := app.GetEnv().Network.GetHostURL()

	slog.Info("Starting server", "addr", addr)

	server := &baseHttp.Server{
		Addr:    addr,
		Handler: app.Handler(),
	}

	if err := endpoint.RunServer(addr, server); err != nil {
		slog.Error("Error running server", "error", err)
		panic("Error running server: " + err.Error())
	}
}
