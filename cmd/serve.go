// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/handler"
	"github.com/penny-vault/etfperf/middleware"
	"github.com/penny-vault/etfperf/observability/opentelemetry"
	"github.com/penny-vault/etfperf/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Profile bool
var Trace bool

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.BindEnv("server.allow_origins", "ETFPERF_ALLOW_ORIGINS")
	serveCmd.Flags().String("allow-origins", "*", "Comma separated list of origins allowed by CORS")
	viper.BindPFlag("server.allow_origins", serveCmd.Flags().Lookup("allow-origins"))

	viper.BindEnv("data.reload_every", "ETFPERF_RELOAD_EVERY")
	serveCmd.Flags().Duration("reload-every", 0, "Reload the reference data on this interval; 0 disables reloading")
	viper.BindPFlag("data.reload_every", serveCmd.Flags().Lookup("reload-every"))

	viper.BindEnv("cache.redis", "ETFPERF_CACHE_REDIS")
	serveCmd.Flags().Bool("cache-redis", false, "Share cached results through redis")
	viper.BindPFlag("cache.redis", serveCmd.Flags().Lookup("cache-redis"))

	viper.BindEnv("cache.redis_url", "REDIS_URL")

	viper.BindEnv("otlp.endpoint", "OTLP_ENDPOINT")
	serveCmd.Flags().String("otlp-endpoint", "", "OTLP trace collector endpoint; blank disables tracing")
	viper.BindPFlag("otlp.endpoint", serveCmd.Flags().Lookup("otlp-endpoint"))

	serveCmd.Flags().BoolVar(&Profile, "cpu-profile", false, "Run pprof and save in profile.out")
	serveCmd.Flags().BoolVar(&Trace, "trace", false, "Trace program execution and save in trace.out")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the etfperf server",
	Long:  `Run HTTP server that implements the etfperf analytics API`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile output file")
			}
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		if Trace {
			f, err := os.Create("trace.out")
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create trace output file")
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal().Err(err).Msg("failed to close trace file")
				}
			}()

			if err := trace.Start(f); err != nil {
				log.Fatal().Err(err).Msg("failed to start trace")
			}
			defer trace.Stop()
		}

		shutdownTracing, err := opentelemetry.Setup()
		if err != nil {
			log.Fatal().Err(err).Msg("could not setup tracing")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Error().Err(err).Msg("could not flush traces")
			}
		}()

		// Initialize data framework
		manager := data.NewManagerFromConfig()
		if err := manager.Load(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("could not load reference data")
		}
		log.Info().Msg("initialized data framework")

		cache, err := common.NewCacheFromConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("could not create result cache")
		}

		service, err := analytics.NewServiceFromConfig(manager, cache)
		if err != nil {
			log.Fatal().Err(err).Msg("could not configure analytics service")
		}

		// Reload reference data on a schedule
		if every := viper.GetDuration("data.reload_every"); every > 0 {
			scheduler := gocron.NewScheduler(time.UTC)
			if _, err := scheduler.Every(every).Do(func() {
				if err := manager.Reload(context.Background()); err != nil {
					log.Error().Err(err).Msg("scheduled reload failed; keeping previous data")
				}
			}); err != nil {
				log.Fatal().Err(err).Msg("could not schedule data reload")
			}
			scheduler.StartAsync()
			defer scheduler.Stop()
			log.Info().Dur("Every", every).Msg("scheduled reference data reload")
		}

		// Create new Fiber instance
		app := fiber.New(fiber.Config{
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			DisableStartupMessage: true,
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-c // block until signal is read
			log.Info().Str("Signal", sig.String()).Msg("received signal; shutting down")
			if err := app.Shutdown(); err != nil {
				log.Error().Err(err).Msg("could not shutdown server")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: viper.GetString("server.allow_origins"),
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app, handler.New(service))

		port := viper.GetString("server.port")
		log.Info().Str("Port", port).Str("Version", common.CurrentVersion.String()).Msg("starting server")
		if err := app.Listen(":" + port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}
