package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	mongodoc "github.com/sngm3741/catering-admin/api/internal/infrastructure/mongo"
	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"gopkg.in/yaml.v3"
)

// fixture は seed 投入用の YAML 定義。
type fixture struct {
	Employees []employeeFixture `yaml:"employees"`
	Menus     []menuFixture     `yaml:"menus"`
}

type employeeFixture struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	CompanyID string `yaml:"companyId"`
	BranchID  string `yaml:"branchId"`
}

// menuFixture の start/end を省略すると翌週分として作成する。
type menuFixture struct {
	CompanyID  string              `yaml:"companyId"`
	BranchID   string              `yaml:"branchId"`
	Start      string              `yaml:"start"`
	End        string              `yaml:"end"`
	MaxOptions int                 `yaml:"maxOptions"`
	Days       map[string][]string `yaml:"days"`
	AddOns     []addOnFixture      `yaml:"addOns"`
}

type addOnFixture struct {
	Name  string `yaml:"name"`
	Price int    `yaml:"price"`
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
}

func loadFixture(path string) (*fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixture %s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()
	return decodeFixture(f)
}

func decodeFixture(r io.Reader) (*fixture, error) {
	var fx fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if err == io.EOF {
			return &fx, nil
		}
		return nil, fmt.Errorf("fixture の解析に失敗しました: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *fixture) validate() error {
	seen := make(map[string]struct{}, len(fx.Employees))
	for i, e := range fx.Employees {
		id, err := mongodoc.EmployeeKey(e.ID)
		if err != nil {
			return fmt.Errorf("employees[%d]: id は必須です", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("employees[%d]: id %q が重複しています", i, id)
		}
		seen[id] = struct{}{}
	}
	for i, m := range fx.Menus {
		if domain.ScopeFor(m.CompanyID, m.BranchID).IsZero() {
			return fmt.Errorf("menus[%d]: companyId か branchId のどちらかが必要です", i)
		}
		if (m.Start == "") != (m.End == "") {
			return fmt.Errorf("menus[%d]: start と end は両方指定してください", i)
		}
		if m.MaxOptions < 0 || m.MaxOptions > domain.OptionSlots {
			return fmt.Errorf("menus[%d]: maxOptions は 0..%d で指定してください", i, domain.OptionSlots)
		}
		for day, options := range m.Days {
			if _, ok := weekdayNames[strings.ToLower(day)]; !ok {
				return fmt.Errorf("menus[%d]: 曜日 %q は月曜から金曜のみ指定できます", i, day)
			}
			if len(options) > domain.OptionSlots {
				return fmt.Errorf("menus[%d].days.%s: 選択肢は最大 %d 件です", i, day, domain.OptionSlots)
			}
		}
	}
	return nil
}

func (e employeeFixture) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:        strings.TrimSpace(e.ID),
		Name:      strings.TrimSpace(e.Name),
		CompanyID: strings.TrimSpace(e.CompanyID),
		BranchID:  strings.TrimSpace(e.BranchID),
	}
}

// dateRange は start/end を解釈する。両方空なら ok=false を返す。
func (m menuFixture) dateRange() (start, end time.Time, ok bool, err error) {
	if m.Start == "" && m.End == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	start, err = time.Parse("2006-01-02", m.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("start の形式が不正です: %w", err)
	}
	end, err = time.Parse("2006-01-02", m.End)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("end の形式が不正です: %w", err)
	}
	return start, end, true, nil
}

// optionsFor は曜日ごとの選択肢を返す。未定義の曜日は nil。
func (m menuFixture) optionsFor(day time.Weekday) []string {
	for name, options := range m.Days {
		if weekdayNames[strings.ToLower(name)] == day {
			return options
		}
	}
	return nil
}
