package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/accountd/accountd/internal/app"
	"github.com/accountd/accountd/internal/di"
)

func main() {
	a, err := di.InitializeApp()
	if err != nil {
		log.Fatal(err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		a.Logger.Info("server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Expired verification and reset codes are swept in the background so the
	// accounts table does not accumulate dead OTP state.
	g.Go(func() error {
		ticker := time.NewTicker(a.Config.OTPSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				cleared, err := a.Accounts.ClearExpiredOTPs()
				if err != nil {
					a.Logger.Warn("otp sweep failed", "error", err)
					continue
				}
				if cleared > 0 {
					a.Logger.Info("otp sweep cleared expired codes", "accounts", cleared)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		httpCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownHTTPDrainTimeout)
		defer cancel()
		if err := a.Server.Shutdown(httpCtx); err != nil {
			a.Logger.Error("failed to shutdown http server", "error", err)
		}
		return nil
	})

	err = g.Wait()
	shutdown(a)
	if err != nil {
		a.Logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func shutdown(a *app.App) {
	if a.Observability != nil {
		obsCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownObservabilityTimeout)
		defer cancel()
		if err := a.Observability.Shutdown(obsCtx); err != nil {
			a.Logger.Error("failed to shutdown observability", "error", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Logger.Error("failed to close database connection", "error", err)
			}
		}
	}
}
