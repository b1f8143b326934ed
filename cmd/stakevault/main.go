// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math/big"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakevault/stakevault/api"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/token"
	"github.com/stakevault/stakevault/vault"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeVault",
		Usage:     "Token-custody staking ledger node",
		Copyright: "2026 The StakeVault developers",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			ownerFlag,
			rewardRateFlag,
			lockDurationFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			pprofFlag,
			verbosityFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:      "mint",
				Usage:     "credit asset balance to an account ('custody' provisions reward liquidity)",
				ArgsUsage: "HOLDER AMOUNT",
				Flags: []cli.Flag{
					dataDirFlag,
					verbosityFlag,
				},
				Action: mintAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	owner := parseOwner(ctx)

	mainDB := openMainDB(ctx)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB := openEventDB(ctx)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	ldg := ledger.New(state.NewCreator(mainDB), token.NewBinder(), eventDB)
	if err := ldg.Initialize(
		owner,
		new(big.Int).SetUint64(ctx.Uint64(rewardRateFlag.Name)),
		ctx.Uint64(lockDurationFlag.Name),
	); err != nil {
		fatal("initialize ledger:", err)
	}
	exec := ledger.NewExecutor(ldg)

	metricsSrv := startMetricsServer(ctx)
	if metricsSrv != nil {
		defer func() { logger.Info("stopping metrics server..."); metricsSrv.Shutdown(context.Background()) }()
	}

	handler := api.New(exec, eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	apiSrv, apiURL := startAPIServer(ctx, handler)
	defer func() { logger.Info("stopping API server..."); apiSrv.Shutdown(context.Background()) }()

	printStartupMessage(owner, apiURL)

	<-handleExitSignal()
	return nil
}

func mintAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 2 {
		return cli.NewExitError("mint requires HOLDER and AMOUNT arguments", 1)
	}
	var holder vault.Address
	if ctx.Args().Get(0) == "custody" {
		// claims pay reward out of the custody account's own balance
		holder = ledger.Address
	} else {
		var err error
		holder, err = vault.ParseAddress(ctx.Args().Get(0))
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("parse holder: %v", err), 1)
		}
	}
	amount, ok := new(big.Int).SetString(ctx.Args().Get(1), 10)
	if !ok || amount.Sign() <= 0 {
		return cli.NewExitError("parse amount: expected positive decimal integer", 1)
	}

	mainDB := openMainDB(ctx)
	defer mainDB.Close()

	st := state.NewCreator(mainDB).NewState()
	if err := token.New(st).Mint(holder, amount); err != nil {
		return cli.NewExitError(fmt.Sprintf("mint: %v", err), 1)
	}
	if err := st.Commit(); err != nil {
		return cli.NewExitError(fmt.Sprintf("commit: %v", err), 1)
	}
	logger.Info("minted", "holder", holder, "amount", amount)
	return nil
}

func printStartupMessage(owner vault.Address, apiURL string) {
	fmt.Printf(`Starting %v
    Version     %v
    Owner       %v
    API portal  %v
`,
		"StakeVault",
		fullVersion(),
		owner,
		apiURL)
}
