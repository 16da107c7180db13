/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tests

import (
	"context"
	"os"
	"testing"

	"github.com/tomoncle/osprey"
	"github.com/tomoncle/osprey/command"
	"github.com/tomoncle/osprey/database"
	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/types"
	"github.com/uptrace/bun"
)

type SystemConfig struct {
	bun.BaseModel `bun:"table:system_config,alias:sc"`

	ID          string           `bun:"id,pk" json:"id"`
	ConfigKey   string           `bun:"config_key,notnull,unique" json:"config_key"`
	ConfigValue string           `bun:"config_value" json:"config_value"`
	Extras      types.JsonObject `bun:"extras,type:json" json:"extras,omitempty"`
	types.Audit
}

func (c *SystemConfig) RecordID() any { return c.ID }

// initLiveDB connects to the database named by the OSPREY_TEST_* variables.
// The suite is skipped when no live database is configured.
func initLiveDB(t *testing.T) {
	t.Helper()
	if os.Getenv("OSPREY_TEST_DB_HOST") == "" {
		t.Skip("set OSPREY_TEST_DB_HOST to run live database tests")
	}
	cfg := database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:     "mysql",
			Host:     os.Getenv("OSPREY_TEST_DB_HOST"),
			Port:     3306,
			Username: os.Getenv("OSPREY_TEST_DB_USERNAME"),
			Password: os.Getenv("OSPREY_TEST_DB_PASSWORD"),
			DBName:   os.Getenv("OSPREY_TEST_DB_NAME"),
		},
	}
	if _, err := database.InitDB(&cfg); err != nil {
		t.Fatalf("init database error: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB() })
}

func TestServiceLifecycle(t *testing.T) {
	initLiveDB(t)
	ctx := context.Background()
	svc := osprey.NewService[SystemConfig]()

	rec := &SystemConfig{
		ID:          types.NewID(),
		ConfigKey:   "feature.x",
		ConfigValue: "on",
		Extras:      types.JsonObject{"rollout": "canary"},
	}
	if _, err := svc.Save(ctx, "tester", rec); err != nil {
		t.Fatalf("save error: %v", err)
	}

	got, err := svc.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got == nil || got.ConfigValue != "on" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Extras["rollout"] != "canary" {
		t.Fatalf("json column did not round-trip: %+v", got.Extras)
	}

	rec.ConfigValue = "off"
	if _, err := svc.Update(ctx, "tester", rec); err != nil {
		t.Fatalf("update error: %v", err)
	}

	if _, err := svc.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	gone, err := svc.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get after delete error: %v", err)
	}
	if gone != nil {
		t.Fatalf("record still visible after soft delete: %+v", gone)
	}

	if _, err := svc.Restore(ctx, "tester", rec); err != nil {
		t.Fatalf("restore error: %v", err)
	}
	back, err := svc.Get(ctx, rec.ID)
	if err != nil || back == nil {
		t.Fatalf("record not restored: %v %v", back, err)
	}

	if _, err := svc.DeleteDirectly(ctx, rec.ID); err != nil {
		t.Fatalf("physical delete error: %v", err)
	}
}

func TestServicePageWithFilter(t *testing.T) {
	initLiveDB(t)
	ctx := context.Background()
	svc := osprey.NewService[SystemConfig]()

	chunk, err := svc.Page(ctx, query.NewRange[SystemConfig]().
		WithFilter(query.Where("config_key LIKE ?", "feature.%")).
		WithOrdering("config_key", types.SortAsc).
		WithPagination(0, 20))
	if err != nil {
		t.Fatalf("page error: %v", err)
	}
	if len(chunk.Items) > 20 {
		t.Fatalf("page window not applied: got %d items", len(chunk.Items))
	}
}

func TestServiceUnitOfWork(t *testing.T) {
	initLiveDB(t)
	ctx := context.Background()
	svc := osprey.NewService[SystemConfig]()

	u := svc.UnitOfWork()
	bound := svc.Bound(u)

	first := &SystemConfig{ID: types.NewID(), ConfigKey: "uow.a", ConfigValue: "1"}
	second := &SystemConfig{ID: types.NewID(), ConfigKey: "uow.b", ConfigValue: "2"}

	if _, err := bound.Add(ctx, command.NewAdd[SystemConfig]().WithEntity(first, second).WithDeferredSave()); err != nil {
		t.Fatalf("stage error: %v", err)
	}
	total, err := u.SaveChanges(ctx)
	if err != nil {
		t.Fatalf("save changes error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 affected records, got %d", total)
	}

	for _, rec := range []*SystemConfig{first, second} {
		if _, err := svc.DeleteDirectly(ctx, rec.ID); err != nil {
			t.Fatalf("cleanup error: %v", err)
		}
	}
}
