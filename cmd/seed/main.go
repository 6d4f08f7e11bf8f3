package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	adminapp "github.com/sngm3741/catering-admin/api/internal/admin/application"
	mongodoc "github.com/sngm3741/catering-admin/api/internal/infrastructure/mongo"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	envName         string
	fixturePath     string
	dropCollections bool
	timeout         time.Duration
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "社員・献立のサンプルデータを MongoDB に投入します",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.envName, "env", "local", "読み込む env ファイル名 (env/<name>.env)")
	cmd.Flags().StringVar(&opts.fixturePath, "fixture", filepath.Join("cmd", "seed", "fixtures", "local.yaml"), "投入する fixture YAML")
	cmd.Flags().BoolVar(&opts.dropCollections, "drop", false, "投入前に対象コレクションを削除する")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "seed 全体のタイムアウト")
	return cmd
}

func run(parent context.Context, opts seedOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := loadEnvFiles(opts.envName); err != nil {
		log.Printf("WARN: env ファイルを読み込めませんでした: %v", err)
	}

	fx, err := loadFixture(opts.fixturePath)
	if err != nil {
		return err
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "catering")
	collections := mongodoc.Collections{
		Menus:     envOrDefault("MENU_COLLECTION", "menus"),
		DaySlots:  envOrDefault("DAY_SLOT_COLLECTION", "menu_day_slots"),
		Responses: envOrDefault("RESPONSE_COLLECTION", "menu_responses"),
		Employees: envOrDefault("EMPLOYEE_COLLECTION", "employees"),
	}
	loc, err := time.LoadLocation(envOrDefault("TIMEZONE", "America/Santiago"))
	if err != nil {
		log.Printf("WARN: タイムゾーンの読み込みに失敗したため UTC を使用します: %v", err)
		loc = time.UTC
	}

	ctx, cancel := context.WithTimeout(parent, opts.timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("MongoDB への接続に失敗しました: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("WARN: MongoDB 切断に失敗: %v", err)
		}
	}()

	db := client.Database(dbName)
	if opts.dropCollections {
		dropCollections(ctx, db, collections)
	}
	if err := mongodoc.EnsureIndexes(ctx, db, collections); err != nil {
		return err
	}

	s := newSeeder(db, client, collections, loc)
	if err := s.seedEmployees(ctx, fx.Employees); err != nil {
		return err
	}
	if err := s.seedMenus(ctx, fx.Menus); err != nil {
		return err
	}

	log.Printf("seed 完了: db=%s employees=%d menus=%d", dbName, len(fx.Employees), len(fx.Menus))
	return nil
}

type seeder struct {
	employees *mongodoc.EmployeeRepository
	menus     menuapp.MenuService
	admin     adminapp.MenuAdminService
}

func newSeeder(db *mongo.Database, client *mongo.Client, c mongodoc.Collections, loc *time.Location) *seeder {
	menus := mongodoc.NewMenuRepository(db, c.Menus)
	daySlots := mongodoc.NewDaySlotRepository(db, c.DaySlots)
	responses := mongodoc.NewResponseRepository(db, c.Responses)
	employees := mongodoc.NewEmployeeRepository(db, c.Employees)
	tx := mongodoc.NewTransactor(client, false)
	logger := log.New(os.Stdout, "[catering-seed] ", log.LstdFlags)

	selections := menuapp.NewSelectionService(menuapp.SelectionDependencies{
		Menus:     menus,
		DaySlots:  daySlots,
		Responses: responses,
		Tx:        tx,
		Logger:    logger,
	})
	return &seeder{
		employees: employees,
		menus: menuapp.NewMenuService(menuapp.MenuDependencies{
			Menus:     menus,
			DaySlots:  daySlots,
			Responses: responses,
			Employees: employees,
			Tx:        tx,
			Dates:     menuapp.NewClockRangeProvider(time.Now, loc),
			Logger:    logger,
		}),
		admin: adminapp.NewMenuAdminService(adminapp.Dependencies{
			Menus:      menus,
			DaySlots:   daySlots,
			Responses:  responses,
			Tx:         tx,
			Selections: selections,
		}),
	}
}

func (s *seeder) seedEmployees(ctx context.Context, employees []employeeFixture) error {
	for _, e := range employees {
		if err := s.employees.Upsert(ctx, e.toDomain()); err != nil {
			return fmt.Errorf("社員 %s の投入に失敗しました: %w", e.ID, err)
		}
	}
	return nil
}

func (s *seeder) seedMenus(ctx context.Context, menus []menuFixture) error {
	for i, m := range menus {
		menu, err := s.resolveMenu(ctx, m)
		if err != nil {
			return fmt.Errorf("menus[%d] の作成に失敗しました: %w", i, err)
		}
		for _, slot := range menu.DaySlots {
			if err := s.configureSlot(ctx, slot, m); err != nil {
				return fmt.Errorf("menus[%d] %s の設定に失敗しました: %w", i, slot.Weekday, err)
			}
		}
		if err := s.addAddOns(ctx, menu, m.AddOns); err != nil {
			return fmt.Errorf("menus[%d] の追加品登録に失敗しました: %w", i, err)
		}
		log.Printf("menu %s (%s..%s, %s) を投入しました", menu.ID,
			menu.StartDate.Format("2006-01-02"), menu.EndDate.Format("2006-01-02"), menu.Scope)
	}
	return nil
}

func (s *seeder) resolveMenu(ctx context.Context, m menuFixture) (*domain.Menu, error) {
	start, end, ok, err := m.dateRange()
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.menus.GetOrCreateNextWeekMenu(ctx, m.CompanyID, m.BranchID)
	}
	return s.menus.GetOrCreateMenu(ctx, start, end, m.CompanyID, m.BranchID)
}

func (s *seeder) configureSlot(ctx context.Context, slot domain.DaySlot, m menuFixture) error {
	optionIDs := m.optionsFor(slot.Weekday)
	if optionIDs == nil && m.MaxOptions == 0 {
		return nil
	}
	cmd := adminapp.ConfigureDaySlotCommand{Options: optionIDs}
	if m.MaxOptions > 0 {
		maxOptions := m.MaxOptions
		cmd.MaxOptions = &maxOptions
	}
	if optionIDs == nil {
		cmd.Options = slot.Options[:]
	}
	_, err := s.admin.ConfigureDaySlot(ctx, slot.ID, cmd)
	return err
}

// addAddOns は同名の追加品が既にあればスキップする。
func (s *seeder) addAddOns(ctx context.Context, menu *domain.Menu, addOns []addOnFixture) error {
	existing := make(map[string]struct{}, len(menu.AddOns))
	for _, a := range menu.AddOns {
		existing[a.Name] = struct{}{}
	}
	for _, a := range addOns {
		if _, ok := existing[strings.TrimSpace(a.Name)]; ok {
			continue
		}
		if _, err := s.admin.AddAddOn(ctx, menu.ID, adminapp.AddOnCommand{Name: a.Name, Price: a.Price}); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean("env")
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

// loadEnvFile は既に設定済みの環境変数を上書きしない。
func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if _, set := os.LookupEnv(key); set {
			continue
		}
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, c mongodoc.Collections) {
	for _, name := range []string{c.Menus, c.DaySlots, c.Responses, c.Employees} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}
