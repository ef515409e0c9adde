package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/folio/internal/cache"
	"github.com/any-hub/folio/internal/config"
	"github.com/any-hub/folio/internal/content"
	"github.com/any-hub/folio/internal/files"
	"github.com/any-hub/folio/internal/github"
	"github.com/any-hub/folio/internal/logging"
	"github.com/any-hub/folio/internal/pathguard"
	"github.com/any-hub/folio/internal/readme"
	"github.com/any-hub/folio/internal/server"
	"github.com/any-hub/folio/internal/server/routes"
	"github.com/any-hub/folio/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["content_path"] = cfg.Global.ContentPath
		fields["github_auth"] = cfg.GitHub.AuthMode()
		fields["admin_enabled"] = cfg.Global.AdminEnabled()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	app, err := buildApp(cfg, logger, time.Now())
	if err != nil {
		fmt.Fprintf(stdErr, "初始化服务失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["content_path"] = cfg.Global.ContentPath
	fields["github_auth"] = cfg.GitHub.AuthMode()
	fields["admin_enabled"] = cfg.Global.AdminEnabled()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(app, cfg.Global.ListenPort, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// buildApp 按 “路径守卫 → 缓存 → 领域服务 → Fiber 路由” 的顺序组装服务，
// 缓存实例在此创建一次并在所有请求间共享。
func buildApp(cfg *config.Config, logger *logrus.Logger, started time.Time) (*fiber.App, error) {
	guard, err := pathguard.New(cfg.Global.ContentPath, cfg.Global.Categories)
	if err != nil {
		return nil, err
	}

	docs := cache.NewTTL[content.Document](cfg.Global.DocumentCacheTTL.DurationValue(),
		cache.WithClone[content.Document](content.CloneDocument))
	projects := cache.NewTTL[github.Project](cfg.Global.ProjectCacheTTL.DurationValue(),
		cache.WithClone[github.Project](github.CloneProject))

	renderer := content.NewRenderer(content.RendererOptions{HighlightCode: cfg.Global.HighlightCode})
	contentSvc := content.NewService(guard, renderer, docs, logger)

	client := github.NewClient(server.NewUpstreamClient(cfg), github.ClientOptions{
		APIBase:   cfg.GitHub.APIBase,
		Token:     cfg.GitHub.Token,
		UserAgent: cfg.GitHub.UserAgent,
		RateLimit: cfg.GitHub.RateLimit,
	})
	fetcher := github.NewFetcher(client, readme.New(cfg.GitHub.RawBase, cfg.GitHub.Branch), projects, logger)

	var gate server.AdminGate
	if cfg.Global.AdminEnabled() {
		jwtGate, err := server.NewJWTGate(cfg.Global.AdminJWTSecret)
		if err != nil {
			return nil, err
		}
		gate = jwtGate
	} else {
		logger.WithField("action", "admin_gate").Warn("AdminJWTSecret 未配置，管理端接口全部拒绝")
	}

	app, err := server.NewApp(server.AppOptions{Logger: logger, BodyLimit: cfg.Global.MaxUploadSize})
	if err != nil {
		return nil, err
	}

	api := app.Group("/api")
	routes.RegisterHealthRoutes(api, started)
	routes.RegisterContentRoutes(api, contentSvc)
	routes.RegisterGitHubRoutes(api, fetcher, guard.Root())
	routes.RegisterAdminRoutes(api, routes.AdminDeps{
		Gate:    gate,
		Content: contentSvc,
		Fetcher: fetcher,
		Files:   files.NewManager(guard, logger),
	})

	if dir := cfg.Global.FrontendPath; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			app.Get("/*", static.New(dir, static.Config{IndexNames: []string{"index.html"}}))
		} else {
			logger.WithField("path", dir).Warn("frontend_dir_missing")
		}
	}
	return app, nil
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("folio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 FOLIO_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("FOLIO_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(app *fiber.App, port int, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
