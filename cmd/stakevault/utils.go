// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakevault/stakevault/eventdb"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/metrics"
	"github.com/stakevault/stakevault/vault"
)

func fatal(args ...interface{}) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fatal(fmt.Sprintf(format, args...))
}

func initLogger(ctx *cli.Context) {
	var level slog.Level
	switch ctx.Int(verbosityFlag.Name) {
	case 0:
		level = log.LevelCrit
	case 1:
		level = log.LevelError
	case 2:
		level = log.LevelWarn
	case 3:
		level = log.LevelInfo
	case 4:
		level = log.LevelDebug
	default:
		level = log.LevelTrace
	}
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	log.SetRootHandler(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor))
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatalf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatalf("create data dir [%v]: %v", dataDir, err)
	}
	return dataDir
}

func openMainDB(ctx *cli.Context) *lvldb.LevelDB {
	if ctx.Bool(memFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			fatal("open main database:", err)
		}
		return db
	}
	dataDir := makeDataDir(ctx)
	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		fatal("open main database:", err)
	}
	return db
}

func openEventDB(ctx *cli.Context) *eventdb.EventDB {
	if ctx.Bool(memFlag.Name) {
		db, err := eventdb.NewMem()
		if err != nil {
			fatal("open event database:", err)
		}
		return db
	}
	dataDir := makeDataDir(ctx)
	db, err := eventdb.New(filepath.Join(dataDir, "events.db"))
	if err != nil {
		fatal("open event database:", err)
	}
	return db
}

func parseOwner(ctx *cli.Context) vault.Address {
	raw := ctx.String(ownerFlag.Name)
	if raw == "" {
		fatalf("-%s is required", ownerFlag.Name)
	}
	owner, err := vault.ParseAddress(raw)
	if err != nil {
		fatalf("parse -%s: %v", ownerFlag.Name, err)
	}
	return owner
}

func startAPIServer(ctx *cli.Context, handler http.HandlerFunc) (*http.Server, string) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatalf("listen API addr [%v]: %v", addr, err)
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("API server stopped", "error", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/"
}

func startMetricsServer(ctx *cli.Context) *http.Server {
	if !ctx.Bool(enableMetricsFlag.Name) {
		return nil
	}
	metrics.InitializePrometheusMetrics()
	addr := ctx.String(metricsAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatalf("listen metrics addr [%v]: %v", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics server started", "addr", listener.Addr().String())
	return srv
}

func handleExitSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		close(done)
	}()
	return done
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "StakeVault")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "StakeVault")
		} else {
			return filepath.Join(home, ".stakevault")
		}
	}
	// cannot guess a stable location, handled later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
