package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	adminapp "github.com/sngm3741/catering-admin/api/internal/admin/application"
	"github.com/sngm3741/catering-admin/api/internal/config"
	"github.com/sngm3741/catering-admin/api/internal/infrastructure/metrics"
	mongodoc "github.com/sngm3741/catering-admin/api/internal/infrastructure/mongo"
	adminhttp "github.com/sngm3741/catering-admin/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/catering-admin/api/internal/interfaces/http/public"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Server は HTTP サーバーのライフサイクルを管理し、従業員向け/管理者向けの各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger           *log.Logger
	client           *mongo.Client
	database         *mongo.Database
	collections      mongodoc.Collections
	ensureIndexes    bool
	location         *time.Location
	recorder         *metrics.Recorder
	menuService      menuapp.MenuService
	selectionService menuapp.SelectionService
	adminMenuService adminapp.MenuAdminService
	jwtConfigs       []config.JWTConfig
	jwtAudience      string
	addr             string
	allowedOrigins   []string
}

// Run はインデックスを用意した上で HTTP サーバーを起動し、ルーティングとミドルウェアを組み立てる。
func (s *Server) Run() error {
	if s.ensureIndexes {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := mongodoc.EnsureIndexes(ctx, s.database, s.collections)
		cancel()
		if err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx, httpServer)
}

// serve は ctx がキャンセルされるまで待ち受け、その後 graceful shutdown と Mongo 切断を行う。
func (s *Server) serve(ctx context.Context, httpServer *http.Server) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		s.logger.Printf("停止シグナルを受信。サーバー停止処理を開始します。")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Printf("サーバー停止時にエラー: %v", err)
		}
		cancel()
	}

	s.disconnect()
	return serveErr
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Method(http.MethodGet, "/metrics", s.recorder.Handler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:     s.logger,
		Menus:      s.menuService,
		Selections: s.selectionService,
	})
	publicHandler.Register(router, s.authMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger: s.logger,
		Menus:  s.adminMenuService,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(commonhttp.RequireRole(s.logger, commonhttp.RoleAdmin))
		adminHandler.Register(r)
	})
	return router
}

// healthHandler は MongoDB への疎通を確認する。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

func (s *Server) disconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// New は Config と Mongo クライアントを受け取り、リポジトリ・アプリケーションサービス・ハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
		cfg.ServerLog.Printf("タイムゾーン %s の読み込みに失敗: %v, UTC を使用します", cfg.Timezone, err)
	}

	database := client.Database(cfg.MongoDatabase)
	collections := mongodoc.Collections{
		Menus:     cfg.MenuCollection,
		DaySlots:  cfg.DaySlotCollection,
		Responses: cfg.ResponseCollection,
		Employees: cfg.EmployeeCollection,
	}

	menus := mongodoc.NewMenuRepository(database, collections.Menus)
	daySlots := mongodoc.NewDaySlotRepository(database, collections.DaySlots)
	responses := mongodoc.NewResponseRepository(database, collections.Responses)
	employees := mongodoc.NewEmployeeRepository(database, collections.Employees)
	tx := mongodoc.NewTransactor(client, cfg.MongoTransactions)
	recorder := metrics.NewRecorder()
	now := func() time.Time { return time.Now().UTC() }

	menuService := menuapp.NewMenuService(menuapp.MenuDependencies{
		Menus:     menus,
		DaySlots:  daySlots,
		Responses: responses,
		Employees: employees,
		Tx:        tx,
		Dates:     menuapp.NewClockRangeProvider(time.Now, loc),
		Recorder:  recorder,
		Logger:    cfg.ServerLog,
		Now:       now,
	})
	selectionService := menuapp.NewSelectionService(menuapp.SelectionDependencies{
		Menus:     menus,
		DaySlots:  daySlots,
		Responses: responses,
		Tx:        tx,
		Policy: menuapp.SelectionPolicy{
			RequireOffered: cfg.SelectionRequireOffered,
			RejectClosed:   cfg.SelectionRejectClosed,
		},
		Recorder: recorder,
		Logger:   cfg.ServerLog,
		Now:      now,
	})
	adminMenuService := adminapp.NewMenuAdminService(adminapp.Dependencies{
		Menus:      menus,
		DaySlots:   daySlots,
		Responses:  responses,
		Tx:         tx,
		Selections: selectionService,
		Now:        now,
	})

	return &Server{
		logger:           cfg.ServerLog,
		client:           client,
		database:         database,
		collections:      collections,
		ensureIndexes:    cfg.EnsureIndexes,
		location:         loc,
		recorder:         recorder,
		menuService:      menuService,
		selectionService: selectionService,
		adminMenuService: adminMenuService,
		jwtConfigs:       append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:      cfg.JWTAudience,
		addr:             cfg.Addr,
		allowedOrigins:   append([]string(nil), cfg.AllowedOrigins...),
	}
}
