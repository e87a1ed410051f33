package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maowbot/maowbot/internal/ai"
	"github.com/maowbot/maowbot/internal/cache"
	"github.com/maowbot/maowbot/internal/config"
	"github.com/maowbot/maowbot/internal/credential"
	"github.com/maowbot/maowbot/internal/database"
	"github.com/maowbot/maowbot/internal/eventbus"
	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/metrics"
	"github.com/maowbot/maowbot/internal/pipeline"
	"github.com/maowbot/maowbot/internal/pipeline/builtin"
	"github.com/maowbot/maowbot/internal/platform"
	"github.com/maowbot/maowbot/internal/platform/discord"
	"github.com/maowbot/maowbot/internal/platform/twitch"
	"github.com/maowbot/maowbot/internal/platform/vrchat"
	"github.com/maowbot/maowbot/internal/plugin"
	"github.com/maowbot/maowbot/internal/registry"
	"github.com/maowbot/maowbot/internal/repository/entity"
	"github.com/maowbot/maowbot/internal/repository/impl"
	"github.com/maowbot/maowbot/internal/rpc"
	"github.com/maowbot/maowbot/internal/scheduler"
)

const version = "dev"

func main() {
	log := logger.New("main")
	log.Info("starting maowbotd v%s", version)

	cfg := config.Load()
	log.Info("environment: %s", cfg.Environment)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("connect database: %v", err)
	}
	if err := database.AutoMigrate(db,
		&entity.ConfigEntity{},
		&entity.CredentialEntity{},
		&entity.PlatformConfigEntity{},
		&entity.AutostartEntity{},
		&entity.AuditEntryEntity{},
		&entity.PipelineEntity{},
		&entity.PipelineFilterEntity{},
		&entity.PipelineActionEntity{},
		&entity.ExecutionLogEntity{},
		&entity.UserEntity{},
		&entity.PlatformIdentityEntity{},
	); err != nil {
		log.Fatal("auto migrate: %v", err)
	}
	if err := database.CheckHealth(db); err != nil {
		log.Fatal("database health check: %v", err)
	}
	log.Info("database connected and migrated")

	configRepo := impl.NewConfigRepository(db)
	auditRepo := impl.NewAuditRepository(db)
	credentialRepo := impl.NewCredentialRepository(db)
	platformConfigRepo := impl.NewPlatformConfigRepository(db)
	autostartRepo := impl.NewAutostartRepository(db)
	pipelineRepo := impl.NewPipelineRepository(db)
	execLogRepo := impl.NewExecutionLogRepository(db)
	_ = impl.NewUserRepository(db) // reserved for the identity-linking surface spec.md §3 describes; no RPC exercises it yet.

	var cacheCfg *cache.Config
	if cfg.Redis.Enabled {
		cacheCfg = cache.RedisConfig(cfg.Redis.Addr)
		cacheCfg.RedisPassword = cfg.Redis.Password
		cacheCfg.RedisDB = cfg.Redis.DB
	} else {
		cacheCfg = cache.DefaultConfig()
	}
	botCache, err := cache.New(cacheCfg)
	if err != nil {
		log.Fatal("init cache: %v", err)
	}
	defer botCache.Close()

	cipher, err := credential.NewCipher(cfg.CredentialKeySource, "certs/cred.key")
	if err != nil {
		log.Fatal("init credential cipher: %v", err)
	}
	credentialStore := credential.NewStore(credentialRepo, cipher)
	// No concrete credential.Authenticator is registered here: twitch,
	// discord, and vrchat OAuth flows are a separate unit of work
	// (DESIGN.md's "Open gap"). CredentialService's auth-flow RPCs are
	// fully implemented against the Store/Authenticator contract and will
	// start working the moment a platform registers one.

	bus := eventbus.New()
	botMetrics := metrics.New()
	bus.SetObserver(busMetricsAdapter{botMetrics})

	platformMgr := platform.New(credentialStore, bus)
	platformMgr.RegisterFactory("twitch", func(account string, bus *eventbus.Bus) platform.Runtime {
		return twitch.New(account, cfg.Twitch.IRCServer, cfg.Twitch.IRCPort, bus)
	})
	platformMgr.RegisterFactory("discord", func(account string, bus *eventbus.Bus) platform.Runtime {
		return discord.New(account, bus)
	})
	platformMgr.RegisterFactory("vrchat", func(account string, bus *eventbus.Bus) platform.Runtime {
		return vrchat.NewRuntime(cfg.VRChat.SendHost, cfg.VRChat.SendPort, cfg.VRChat.ListenPort, bus)
	})

	aiMgr := ai.NewManager(configRepo)

	reg := registry.New()
	builtin.RegisterFilters(reg)
	builtin.RegisterActions(reg, builtin.Dependencies{
		Chat:     platformMgr,
		OSC:      platformMgr,
		AI:       aiMgr,
		Plugins:  nil, // plugin_call has nothing to dispatch to: the plugin wire protocol has no host-initiated call/response frame pair, only notifications (Tick, GameEvent) and plugin-initiated commands.
		Render:   pipeline.RenderTemplate,
		SharedOf: pipeline.SharedDataFromContext,
	})

	engine := pipeline.New(pipelineRepo, execLogRepo, reg)
	engine.SetObserver(pipelineMetricsAdapter{botMetrics})

	policy := plugin.NewPolicy(cfg.GRPCPassphrase, []plugin.Capability{plugin.CapReceiveChatEvents, plugin.CapReadStatus})
	pluginHost := plugin.New("maowbot", bus, policy, platformMgr, botCache)
	pluginHost.SetObserver(pluginMetricsAdapter{botMetrics})

	stopEngine := make(chan struct{})
	go runPipelineConsumer(bus, engine, stopEngine)

	sched := scheduler.New()
	if cfg.BackgroundJobs.AutostartRestoreOnBoot {
		bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		scheduler.RestoreAutostart(bootCtx, autostartRepo, platformMgr)
		cancel()
	}
	sched.
		WithTokenRefresh(credentialStore, cfg.BackgroundJobs.TokenRefreshInterval).
		WithRetentionSweep(execLogRepo, 30*24*time.Hour, cfg.BackgroundJobs.PartitionRotationCron).
		Start()

	grpcServer := rpc.NewServer(rpc.Deps{
		Config:          configRepo,
		Audit:           auditRepo,
		PlatformConfigs: platformConfigRepo,
		Autostart:       autostartRepo,
		Pipelines:       pipelineRepo,
		ExecutionLog:    execLogRepo,
		Bus:             bus,
		Credential:      credentialStore,
		Platform:        platformMgr,
		Engine:          engine,
		PluginHost:      pluginHost,
		AI:              aiMgr,
		Metrics:         botMetrics,
		AuthEnabled:     cfg.AuthEnabled,
		AuthSecret:      cfg.GRPCPassphrase,
	})

	ready := false
	httpServer := botMetrics.NewServer(":"+cfg.Port, func() bool { return ready })
	go func() {
		log.Info("health/metrics server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil {
			log.Error("health server stopped: %v", err)
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatal("listen on grpc port %s: %v", cfg.GRPCPort, err)
	}
	go func() {
		log.Info("grpc server listening on %s", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc server stopped: %v", err)
		}
	}()
	ready = true

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	close(stopEngine)
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownGraceSeconds)*time.Second)
	defer cancel()
	grpcServer.GracefulStop()
	pluginHost.Shutdown()
	bus.Shutdown()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("health server shutdown: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	log.Info("maowbotd stopped")
}

// runPipelineConsumer feeds every bus event through the pipeline engine,
// the same subscribe/range/unsubscribe shape internal/plugin/host.go's
// chatFanout uses.
func runPipelineConsumer(bus *eventbus.Bus, engine *pipeline.Engine, stop <-chan struct{}) {
	recv := bus.Subscribe(eventbus.DefaultBufferSize)
	defer bus.Unsubscribe(recv)
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-recv.C:
			if !ok {
				return
			}
			engine.HandleEvent(context.Background(), ev)
		}
	}
}

type busMetricsAdapter struct{ m *metrics.Metrics }

func (a busMetricsAdapter) ObservePublishDuration(kind string, seconds float64) {
	a.m.EventBusPublishDuration.WithLabelValues(kind).Observe(seconds)
}

func (a busMetricsAdapter) RecordDroppedEvent(kind string) {
	a.m.EventBusDroppedEvents.WithLabelValues(kind).Inc()
}

type pipelineMetricsAdapter struct{ m *metrics.Metrics }

func (a pipelineMetricsAdapter) RecordPipelineExecution(pipelineName, outcome string, seconds float64) {
	a.m.PipelineExecutionsTotal.WithLabelValues(pipelineName, outcome).Inc()
	a.m.PipelineExecutionDuration.WithLabelValues(pipelineName).Observe(seconds)
}

type pluginMetricsAdapter struct{ m *metrics.Metrics }

func (a pluginMetricsAdapter) SetPluginSessionsActive(n int) {
	a.m.PluginSessionsActive.Set(float64(n))
}
