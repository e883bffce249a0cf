// ABOUTME: MCP tool implementations for BMI calculation and history.
// ABOUTME: Provides calculate, save, list, delete, undo, clear and export tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/bmi/internal/bmi"
	"github.com/harperreed/bmi/internal/history"
	"github.com/harperreed/bmi/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// calculate_bmi
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_bmi",
		Description: "Calculate BMI, category, healthy weight range and ideal weight without saving",
	}, s.handleCalculateBMI)

	// save_bmi
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_bmi",
		Description: "Calculate BMI and save the result to history",
	}, s.handleSaveBMI)

	// list_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_history",
		Description: "List saved BMI records, newest first",
	}, s.handleListHistory)

	// delete_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a saved BMI record by ID",
	}, s.handleDeleteRecord)

	// undo_delete
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "undo_delete",
		Description: "Restore the most recently deleted record",
	}, s.handleUndoDelete)

	// clear_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_history",
		Description: "Delete every saved BMI record",
	}, s.handleClearHistory)

	// export_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_history",
		Description: "Export the history as csv, json, yaml or markdown",
	}, s.handleExportHistory)
}

// Tool input/output types

type calculateInput struct {
	Units  string  `json:"units" jsonschema:"Unit system: metric (kg, cm) or imperial (lbs, ft/in)"`
	Weight float64 `json:"weight" jsonschema:"Weight in kg (metric) or lbs (imperial)"`
	Height float64 `json:"height" jsonschema:"Height in cm (metric) or whole feet (imperial)"`
	Inches int     `json:"inches,omitempty" jsonschema:"Additional inches (imperial only)"`
	Age    int     `json:"age" jsonschema:"Age in years"`
	Gender string  `json:"gender" jsonschema:"male or female"`
}

func (in calculateInput) raw() bmi.RawInput {
	return bmi.RawInput{
		Units:  in.Units,
		Weight: strconv.FormatFloat(in.Weight, 'f', -1, 64),
		Height: strconv.FormatFloat(in.Height, 'f', -1, 64),
		Inches: strconv.Itoa(in.Inches),
		Age:    strconv.Itoa(in.Age),
		Gender: in.Gender,
	}
}

type calculateOutput struct {
	ID           int64   `json:"id,omitempty"`
	BMI          float64 `json:"bmi"`
	Category     string  `json:"category"`
	Color        string  `json:"color"`
	Description  string  `json:"description"`
	Tip          string  `json:"tip"`
	HealthyMinKg float64 `json:"healthy_min_kg"`
	HealthyMaxKg float64 `json:"healthy_max_kg"`
	IdealMinKg   float64 `json:"ideal_min_kg"`
	IdealMaxKg   float64 `json:"ideal_max_kg"`
	Message      string  `json:"message"`
}

type listHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type deleteRecordInput struct {
	ID int64 `json:"id" jsonschema:"Record ID"`
}

type emptyInput struct{}

type clearHistoryInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true to delete every record"`
}

type exportHistoryInput struct {
	Format string `json:"format" jsonschema:"One of csv, json, yaml or markdown"`
}

type exportOutput struct {
	Format  string `json:"format"`
	Records int    `json:"records"`
	Content string `json:"content"`
}

type recordOutput struct {
	Record  *models.Record `json:"record,omitempty"`
	Message string         `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func evaluate(input calculateInput) (bmi.Result, bmi.Input, calculateOutput, error) {
	res, in, err := bmi.Evaluate(input.raw())
	if err != nil {
		return bmi.Result{}, bmi.Input{}, calculateOutput{}, fmt.Errorf("invalid input: %w", err)
	}

	idealMin, idealMax := bmi.IdealWeightRange(res.HeightMeters, in.Gender)
	return res, in, calculateOutput{
		BMI:          res.BMI,
		Category:     res.Label(),
		Color:        res.Color(),
		Description:  res.Description(),
		Tip:          res.Tip(),
		HealthyMinKg: res.HealthyMinKg,
		HealthyMaxKg: res.HealthyMaxKg,
		IdealMinKg:   idealMin,
		IdealMaxKg:   idealMax,
		Message:      fmt.Sprintf("BMI %.2f (%s)", res.BMI, res.Label()),
	}, nil
}

func (s *Server) handleCalculateBMI(ctx context.Context, req *mcp.CallToolRequest, input calculateInput) (*mcp.CallToolResult, calculateOutput, error) {
	_, _, out, err := evaluate(input)
	if err != nil {
		return nil, calculateOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSaveBMI(ctx context.Context, req *mcp.CallToolRequest, input calculateInput) (*mcp.CallToolResult, calculateOutput, error) {
	res, in, out, err := evaluate(input)
	if err != nil {
		return nil, calculateOutput{}, err
	}

	id, err := s.store.Save(ctx, res, in)
	if err != nil {
		return nil, calculateOutput{}, fmt.Errorf("failed to save record: %w", err)
	}

	out.ID = id
	out.Message = fmt.Sprintf("Saved BMI %.2f (%s) as record %d", res.BMI, res.Label(), id)
	return nil, out, nil
}

func (s *Server) handleListHistory(ctx context.Context, req *mcp.CallToolRequest, input listHistoryInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, map[string]any{"message": "No records found."}, nil
	}
	if len(records) > input.Limit {
		records = records[:input.Limit]
	}

	return nil, map[string]any{"records": records}, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input deleteRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	removed, err := s.store.Delete(ctx, input.ID)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to delete record: %w", err)
	}
	if removed == nil {
		return nil, recordOutput{Message: fmt.Sprintf("No record with ID %d", input.ID)}, nil
	}

	return nil, recordOutput{
		Record:  removed,
		Message: fmt.Sprintf("Deleted record %d (BMI %.2f). Call undo_delete to restore it.", removed.ID, removed.BMI),
	}, nil
}

func (s *Server) handleUndoDelete(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, recordOutput, error) {
	restored, err := s.store.Undo(ctx)
	if errors.Is(err, history.ErrNothingToUndo) {
		return nil, recordOutput{Message: "Nothing to undo."}, nil
	}
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to undo delete: %w", err)
	}

	return nil, recordOutput{
		Record:  restored,
		Message: fmt.Sprintf("Restored record as %d", restored.ID),
	}, nil
}

func (s *Server) handleClearHistory(ctx context.Context, req *mcp.CallToolRequest, input clearHistoryInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !input.Confirm {
		return nil, simpleOutput{}, errors.New("clear_history requires confirm=true")
	}

	records, err := s.records(ctx)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	n := len(records)
	if err := s.store.DeleteAll(ctx); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to clear history: %w", err)
	}

	return nil, simpleOutput{Message: fmt.Sprintf("Deleted %d records", n)}, nil
}

func (s *Server) handleExportHistory(ctx context.Context, req *mcp.CallToolRequest, input exportHistoryInput) (*mcp.CallToolResult, exportOutput, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, exportOutput{}, err
	}
	format := strings.ToLower(input.Format)

	var data []byte
	switch format {
	case "csv":
		data, err = history.ExportCSV(records)
	case "json":
		data, err = history.ExportJSON(records)
	case "yaml":
		data, err = history.ExportYAML(records)
	case "markdown", "md":
		format = "markdown"
		data = []byte(history.ExportMarkdown(records))
	default:
		return nil, exportOutput{}, fmt.Errorf("unknown format: %s (use csv, json, yaml, or markdown)", input.Format)
	}
	if err != nil {
		return nil, exportOutput{}, fmt.Errorf("export failed: %w", err)
	}

	return nil, exportOutput{Format: format, Records: len(records), Content: string(data)}, nil
}
