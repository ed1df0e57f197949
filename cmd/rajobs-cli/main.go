package main

import (
	"os"

	"rajobs-backend/cmd/rajobs-cli/commands"
	"rajobs-backend/lib/telemetry"
	"rajobs-backend/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "rajobs")
	if err == nil {
		defer tel.Shutdown(ctx)
		telemetry.InstrumentPerfStats(ctx)
	} else if !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	commands.ExecuteContext(ctx)
}
