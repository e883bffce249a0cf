// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/bmi/internal/history"
	"github.com/harperreed/bmi/internal/models"
	"github.com/harperreed/bmi/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer creates a server over a temp SQLite database.
func setupTestServer(t *testing.T) (*Server, *history.Store) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "bmi.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := history.New(context.Background(), db)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(store.Close)

	server, err := NewServer(store, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, store
}

func metricInput() calculateInput {
	return calculateInput{Units: "metric", Weight: 70, Height: 175, Age: 30, Gender: "male"}
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.store == nil {
		t.Error("Expected non-nil store")
	}
}

func TestNewServerRequiresStore(t *testing.T) {
	if _, err := NewServer(nil, nil); err == nil {
		t.Error("Expected error for nil store")
	}
}

func TestHandleCalculateBMI(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		input        calculateInput
		wantErr      bool
		wantCategory string
		wantBMI      float64
	}{
		{
			name:         "metric normal",
			input:        metricInput(),
			wantCategory: "Normal",
			wantBMI:      22.86,
		},
		{
			name:         "imperial normal",
			input:        calculateInput{Units: "imperial", Weight: 154, Height: 5, Inches: 9, Age: 30, Gender: "female"},
			wantCategory: "Normal",
			wantBMI:      22.74,
		},
		{
			name:    "zero age",
			input:   calculateInput{Units: "metric", Weight: 70, Height: 175, Age: 0, Gender: "male"},
			wantErr: true,
		},
		{
			name:    "missing gender",
			input:   calculateInput{Units: "metric", Weight: 70, Height: 175, Age: 30},
			wantErr: true,
		},
		{
			name:    "bad units",
			input:   calculateInput{Units: "stone", Weight: 11, Height: 5, Age: 30, Gender: "male"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleCalculateBMI(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", out.Category, tt.wantCategory)
			}
			if diff := out.BMI - tt.wantBMI; diff > 0.01 || diff < -0.01 {
				t.Errorf("BMI = %.4f, want ~%.2f", out.BMI, tt.wantBMI)
			}
			if out.HealthyMinKg >= out.HealthyMaxKg || out.IdealMinKg >= out.IdealMaxKg {
				t.Errorf("bad ranges: %+v", out)
			}
		})
	}

	if len(store.Snapshot()) != 0 {
		t.Error("calculate_bmi must not save")
	}
}

func TestHandleSaveBMI(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.ID <= 0 {
		t.Errorf("Expected positive id, got %d", out.ID)
	}

	latest, ok := store.Latest()
	if !ok || latest.ID != out.ID || latest.Weight != "70 kg" || latest.Height != "175 cm" {
		t.Errorf("unexpected saved record: %+v", latest)
	}

	if _, _, err := server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, calculateInput{Units: "metric"}); err == nil {
		t.Error("Expected error for invalid input")
	}
	if len(store.Snapshot()) != 1 {
		t.Error("invalid input must not be saved")
	}
}

func TestHandleListHistory(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleListHistory(ctx, &mcp.CallToolRequest{}, listHistoryInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	empty, ok := output.(map[string]any)
	if !ok || empty["message"] != "No records found." {
		t.Errorf("unexpected empty output: %v", output)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	_, output, err = server.handleListHistory(ctx, &mcp.CallToolRequest{}, listHistoryInput{Limit: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	records, ok := output.(map[string]any)["records"].([]models.Record)
	if !ok {
		t.Fatalf("Expected record slice, got %T", output.(map[string]any)["records"])
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestHandleDeleteAndUndo(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()

	_, saved, err := server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	_, out, err := server.handleDeleteRecord(ctx, &mcp.CallToolRequest{}, deleteRecordInput{ID: saved.ID})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Record == nil || out.Record.ID != saved.ID {
		t.Errorf("unexpected delete output: %+v", out)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("record should be gone")
	}

	_, out, err = server.handleUndoDelete(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Record == nil || out.Record.BMI != saved.BMI {
		t.Errorf("unexpected undo output: %+v", out)
	}
	if len(store.Snapshot()) != 1 {
		t.Error("record should be restored")
	}

	_, out, err = server.handleUndoDelete(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil || out.Message != "Nothing to undo." {
		t.Errorf("second undo = (%+v, %v)", out, err)
	}
}

func TestHandleDeleteRecordMissing(t *testing.T) {
	server, _ := setupTestServer(t)

	_, out, err := server.handleDeleteRecord(context.Background(), &mcp.CallToolRequest{}, deleteRecordInput{ID: 404})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Record != nil || !strings.Contains(out.Message, "No record") {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestHandleClearHistory(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()

	server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput())
	server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput())

	if _, _, err := server.handleClearHistory(ctx, &mcp.CallToolRequest{}, clearHistoryInput{}); err == nil {
		t.Error("Expected error without confirm")
	}
	if len(store.Snapshot()) != 2 {
		t.Fatal("unconfirmed clear must not delete")
	}

	_, out, err := server.handleClearHistory(ctx, &mcp.CallToolRequest{}, clearHistoryInput{Confirm: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Message != "Deleted 2 records" {
		t.Errorf("Message = %q", out.Message)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("Expected empty history")
	}
}

func TestHandleExportHistory(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput())

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "csv", want: "Date,BMI,Category,Age,Gender,Weight,Height"},
		{format: "json", want: `"records"`},
		{format: "yaml", want: "records:"},
		{format: "markdown", want: "| Date | BMI |"},
		{format: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, out, err := server.handleExportHistory(ctx, &mcp.CallToolRequest{}, exportHistoryInput{Format: tt.format})
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Records != 1 {
				t.Errorf("Records = %d, want 1", out.Records)
			}
			if !strings.Contains(out.Content, tt.want) {
				t.Errorf("content missing %q:\n%s", tt.want, out.Content)
			}
		})
	}
}

func readJSON(t *testing.T, result *mcp.ReadResourceResult) map[string]any {
	t.Helper()
	if result == nil || len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &v); err != nil {
		t.Fatalf("resource is not JSON: %v", err)
	}
	return v
}

func TestHandleHistoryResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput())

	result, err := server.handleHistoryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "bmi://history" {
		t.Errorf("URI = %q", result.Contents[0].URI)
	}
	if v := readJSON(t, result); v["count"] != float64(1) {
		t.Errorf("count = %v, want 1", v["count"])
	}
}

func TestHandleLatestResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleLatestResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v := readJSON(t, result); v["message"] != "No records yet." {
		t.Errorf("unexpected empty latest: %v", v)
	}

	server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, metricInput())
	result, err = server.handleLatestResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v := readJSON(t, result)
	if v["color"] != "green" || v["tip"] == "" {
		t.Errorf("unexpected latest: %v", v)
	}
}

func TestHandleTrendResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	for _, w := range []float64{60, 70, 80} {
		in := metricInput()
		in.Weight = w
		server.handleSaveBMI(ctx, &mcp.CallToolRequest{}, in)
	}

	result, err := server.handleTrendResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v := readJSON(t, result)
	points, ok := v["points"].([]any)
	if !ok || len(points) != 3 {
		t.Fatalf("points = %v", v["points"])
	}
	first := points[0].(map[string]any)
	if first["bmi"].(float64) >= points[2].(map[string]any)["bmi"].(float64) {
		t.Error("trend should run oldest to newest")
	}
}

func TestHandlersSeeExternalWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bmi.db")

	openDB := func() *storage.DB {
		db, err := storage.Open(path)
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	}

	store, err := history.New(ctx, openDB())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(store.Close)
	server, err := NewServer(store, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	other := openDB()
	id, err := other.Insert(ctx, &models.Record{Timestamp: time.Now(), BMI: 26.1, Category: "Overweight", Age: 52, Gender: "Female", Weight: "75 kg", Height: "169 cm"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	_, output, err := server.handleListHistory(ctx, &mcp.CallToolRequest{}, listHistoryInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	records, ok := output.(map[string]any)["records"].([]models.Record)
	if !ok || len(records) != 1 || records[0].ID != id {
		t.Fatalf("list_history = %v, want the external record", output)
	}

	result, err := server.handleLatestResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v := readJSON(t, result); v["color"] != "yellow" {
		t.Errorf("latest = %v, want the external overweight record", v)
	}

	_, out, err := server.handleDeleteRecord(ctx, &mcp.CallToolRequest{}, deleteRecordInput{ID: id})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Record == nil || out.Record.ID != id {
		t.Errorf("delete output = %+v, want the external record", out)
	}
	if !store.CanUndo() {
		t.Error("external record delete should be undoable")
	}
}
