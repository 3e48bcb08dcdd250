package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Mieluoxxx/Vegax-Route/internal/api"
	"github.com/Mieluoxxx/Vegax-Route/internal/availability"
	"github.com/Mieluoxxx/Vegax-Route/internal/catalog"
	"github.com/Mieluoxxx/Vegax-Route/internal/config"
	"github.com/Mieluoxxx/Vegax-Route/internal/credential"
	"github.com/Mieluoxxx/Vegax-Route/internal/db"
	"github.com/Mieluoxxx/Vegax-Route/internal/models"
	"github.com/Mieluoxxx/Vegax-Route/internal/probe"
	"github.com/Mieluoxxx/Vegax-Route/internal/registry"
	"github.com/Mieluoxxx/Vegax-Route/internal/stats"
	"github.com/Mieluoxxx/Vegax-Route/internal/store"
	"github.com/Mieluoxxx/Vegax-Route/internal/tier"
)

// app 组装后的运行时依赖
type app struct {
	cfg      *config.Config
	repo     *store.Repository
	engine   *probe.Engine
	checker  *availability.Checker
	resolver *tier.Resolver
	tiers    *tier.Config
	counter  *stats.ProbeCounter
}

// newApp 按 config -> db -> store -> engine -> checker -> resolver 顺序组装
func newApp() (*app, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	database, err := db.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.CloseDatabase(database) }

	if err := db.AutoMigrate(database); err != nil {
		cleanup()
		return nil, nil, err
	}

	repo := store.NewRepository(database)
	creds := credential.NewResolver(cfg.Credential.SecretStorePath, cfg.Credential.PlaintextPath)
	engine := probe.NewEngine(repo, creds, registry.Default(), &cfg.Probe)

	snapshot := catalog.LoadSnapshot(cfg.Catalog.SnapshotPath)
	checker := availability.NewChecker(engine, repo, snapshot, cfg.Probe.AvailTTLSeconds)

	tiers, err := tier.LoadConfig(cfg.Tier.SpecPath)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	chain := tier.NewCommandChain(cfg.Tier.ChainCommand)
	resolver := tier.NewResolver(checker, tiers, cfg.Tier.GatewayMode, chain)

	counter := stats.NewProbeCounter()
	engine.SetObserver(func(status models.HealthStatus, fromCache bool) {
		if fromCache {
			counter.RecordCacheHit()
		} else {
			counter.RecordProbe(status)
		}
	})

	return &app{
		cfg:      cfg,
		repo:     repo,
		engine:   engine,
		checker:  checker,
		resolver: resolver,
		tiers:    tiers,
		counter:  counter,
	}, cleanup, nil
}

// probeOptions 标志到探测选项的转换
func probeOptions(f commonFlags) probe.Options {
	return probe.Options{
		Force:       f.force,
		TTLOverride: f.ttl,
		Quiet:       f.quiet,
	}
}

// printJSON 输出 JSON 结果
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(data))
}

// ==================== 子命令 ====================

// cmdCheck 检查供应商 / 层级 / 模型
// 参数先按供应商名匹配，再按层级名匹配，最后按模型处理
func (a *app) cmdCheck(arg string, f commonFlags) int {
	if a.engine.Registry().Has(arg) {
		return a.probeOne(arg, f)
	}
	if _, ok := a.tiers.Lookup(arg, a.cfg.Tier.GatewayMode); ok {
		return a.cmdResolve(arg, f, false)
	}
	return a.checkModel(arg, f)
}

// checkModel 检查单个模型的可服务性
func (a *app) checkModel(modelSpec string, f commonFlags) int {
	result, err := a.checker.Check(context.Background(), modelSpec, probeOptions(f))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	if f.jsonOut {
		printJSON(result)
	} else if !f.quiet {
		if result.OK() {
			fmt.Printf("%s: available (source: %s)\n", result.ModelSpec, result.Source)
		} else if result.Status.IsHealthy() {
			fmt.Printf("%s: unavailable (source: %s)\n", result.ModelSpec, result.Source)
		} else {
			fmt.Printf("%s: %s\n", result.ModelSpec, result.Status)
		}
	}

	// 供应商健康但模型不可用同样算不可用
	if result.Status.IsHealthy() && !result.Available {
		return ExitUnavailable
	}
	return exitCodeFor(result.Status)
}

// cmdProbe 探测单个或全部供应商
func (a *app) cmdProbe(positional []string, f commonFlags) int {
	if f.all || len(positional) == 0 {
		return a.probeAll(f)
	}
	return a.probeOne(positional[0], f)
}

// probeOne 探测单个供应商
func (a *app) probeOne(providerID string, f commonFlags) int {
	rec, err := a.engine.Probe(context.Background(), providerID, probeOptions(f))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	if f.jsonOut {
		printJSON(rec)
	} else if !f.quiet {
		printHealthLine(rec)
	}

	return exitCodeFor(rec.Status)
}

// probeAll 探测所有已注册供应商，返回最差分类的退出码
func (a *app) probeAll(f commonFlags) int {
	recs, err := a.engine.ProbeAll(context.Background(), probeOptions(f))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	if f.jsonOut {
		printJSON(recs)
	} else if !f.quiet {
		for _, rec := range recs {
			printHealthLine(rec)
		}
	}

	exit := ExitOK
	for _, rec := range recs {
		if code := exitCodeFor(rec.Status); code > exit {
			exit = code
		}
	}
	return exit
}

// cmdStatus 输出缓存中的健康记录
func (a *app) cmdStatus(f commonFlags) int {
	recs, err := a.repo.ListHealth()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	if f.jsonOut {
		printJSON(recs)
		return ExitOK
	}

	if len(recs) == 0 {
		fmt.Println("no health records (run `vegax probe --all` first)")
		return ExitOK
	}
	for _, rec := range recs {
		printHealthLine(rec)
	}
	return ExitOK
}

// cmdRateLimits 输出缓存中的限流记录
func (a *app) cmdRateLimits(f commonFlags) int {
	recs, err := a.repo.ListRateLimits()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	if f.jsonOut {
		printJSON(recs)
		return ExitOK
	}

	if len(recs) == 0 {
		fmt.Println("no rate limit records")
		return ExitOK
	}
	for _, rec := range recs {
		fmt.Printf("%-12s requests %d/%d (reset %s)  tokens %d/%d (reset %s)\n",
			rec.Provider,
			rec.RequestsRemaining, rec.RequestsLimit, orDash(rec.RequestsReset),
			rec.TokensRemaining, rec.TokensLimit, orDash(rec.TokensReset))
	}
	return ExitOK
}

// cmdResolve 解析层级到具体模型
func (a *app) cmdResolve(tierName string, f commonFlags, chainFirst bool) int {
	opts := tier.Options{
		Force:         f.force,
		Quiet:         f.quiet,
		TTLOverride:   f.ttl,
		AgentOverride: f.agent,
	}

	var modelSpec string
	var err error
	if chainFirst {
		modelSpec, err = a.resolver.ResolveChain(context.Background(), tierName, opts)
	} else {
		modelSpec, err = a.resolver.Resolve(context.Background(), tierName, opts)
	}

	if err != nil {
		if errors.Is(err, tier.ErrTierExhausted) || errors.Is(err, tier.ErrUnknownTier) {
			fmt.Fprintln(os.Stderr, err)
			return ExitUnavailable
		}
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	if f.jsonOut {
		printJSON(map[string]string{"tier": tierName, "model": modelSpec})
	} else {
		// 解析结果始终输出到 stdout，供脚本捕获
		fmt.Println(modelSpec)
	}
	return ExitOK
}

// cmdInvalidate 清除供应商缓存
func (a *app) cmdInvalidate(positional []string, f commonFlags) int {
	var err error
	target := "all"

	if len(positional) > 0 {
		target = positional[0]
		if !a.engine.Registry().Has(target) {
			fmt.Fprintf(os.Stderr, "unknown provider: %s\n", target)
			return ExitUnavailable
		}
		err = a.repo.Invalidate(target)
	} else {
		err = a.repo.InvalidateAll()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	if !f.quiet {
		fmt.Printf("cache invalidated: %s\n", target)
	}
	return ExitOK
}

// cmdServe 启动状态面板 API
func (a *app) cmdServe() int {
	router := api.SetupRouter(a.engine, a.repo, a.counter)
	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	fmt.Printf("%s v%s serving on %s\n", AppName, Version, addr)

	if err := router.Run(addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}
	return ExitOK
}

// ==================== 输出辅助 ====================

// printHealthLine 打印单行健康摘要
func printHealthLine(rec *models.ProviderHealth) {
	switch rec.Status {
	case models.StatusHealthy:
		fmt.Printf("%-12s %s (http=%d, %dms, %d models)\n",
			rec.Provider, rec.Status, rec.HTTPCode, rec.LatencyMs, rec.ItemCount)
	case models.StatusNoKey:
		fmt.Printf("%-12s %s\n", rec.Provider, rec.Status)
	default:
		fmt.Printf("%-12s %s (http=%d, %dms) %s\n",
			rec.Provider, rec.Status, rec.HTTPCode, rec.LatencyMs, rec.ErrorMessage)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
