// Package store persists completed scheduling runs so they can be
// inspected across invocations of cmd/schedctl. It sits entirely
// outside the core scheduling boundary (spec §6: "no persisted state
// at the core boundary") — the core packages never import it, and it
// only ever reads a model.Schedule after pipeline.Schedule returns.
//
// Grounded on perf-analysis's internal/repository: a gorm-backed
// repository behind a small interface, with a factory that opens the
// underlying *gorm.DB. Here a single embedded SQLite file is
// sufficient, so only gorm.io/driver/sqlite is wired (see SPEC_FULL.md
// §10 for why the Postgres/MySQL/ClickHouse drivers in that repo are not).
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/go-dagsched/dagsched/internal/model"
)

// Run is the persisted record of one scheduling run.
type Run struct {
	ID         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	CCR        float64
	Makespan   float64
	ScheduleJS string `gorm:"column:schedule_json"`
}

// TableName pins the table name independent of struct renames.
func (Run) TableName() string { return "runs" }

// Store persists and retrieves Run records.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) a SQLite-backed Store at path. Use
// ":memory:" for an ephemeral, process-local store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "store: open sqlite")
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, errors.Wrap(err, "store: migrate")
	}
	return &Store{db: db}, nil
}

// Save persists sched under a freshly generated run id and returns it.
func (s *Store) Save(ccr float64, sched *model.Schedule) (string, error) {
	dups := make([]duplicateDTO, 0, len(sched.Duplicates))
	for k, v := range sched.Duplicates {
		dups = append(dups, duplicateDTO{TaskID: k.TaskID, VMID: k.VMID, AST: v.AST, AFT: v.AFT})
	}
	payload, err := json.Marshal(scheduleDTO{
		VMSchedule: sched.VMSchedule,
		TaskToVM:   sched.TaskToVM,
		TaskAST:    sched.TaskAST,
		TaskAFT:    sched.TaskAFT,
		Duplicates: dups,
	})
	if err != nil {
		return "", errors.Wrap(err, "store: marshal schedule")
	}

	run := Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		CCR:        ccr,
		Makespan:   sched.Makespan(),
		ScheduleJS: string(payload),
	}
	if err := s.db.Create(&run).Error; err != nil {
		return "", errors.Wrap(err, "store: insert run")
	}

	return run.ID, nil
}

// Get retrieves a previously saved run by id.
func (s *Store) Get(id string) (*Run, error) {
	var run Run
	if err := s.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("store: run %s: %w", id, err)
	}
	return &run, nil
}

// List returns the most recent runs, newest first, up to limit.
func (s *Store) List(limit int) ([]Run, error) {
	var runs []Run
	if err := s.db.Order("created_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, errors.Wrap(err, "store: list runs")
	}
	return runs, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "store: underlying db")
	}
	return sqlDB.Close()
}

// scheduleDTO is the JSON-serializable projection of a model.Schedule
// actually persisted (ranks/levels/critical-path are recomputable and
// omitted to keep the payload small). Duplicates are flattened to a
// slice since model.DuplicateKey, a struct, cannot be a JSON object
// key.
type scheduleDTO struct {
	VMSchedule map[int][]int  `json:"vmSchedule"`
	TaskToVM   map[int]int    `json:"taskToVM"`
	TaskAST    map[int]float64 `json:"taskAST"`
	TaskAFT    map[int]float64 `json:"taskAFT"`
	Duplicates []duplicateDTO `json:"duplicates"`
}

type duplicateDTO struct {
	TaskID int     `json:"taskId"`
	VMID   int     `json:"vmId"`
	AST    float64 `json:"ast"`
	AFT    float64 `json:"aft"`
}
