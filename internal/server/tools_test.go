package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"card_load",
		"card_locate",
		"card_rectify",
		"card_read_label",
		"particle_segment",
		"particle_analyze",
		"particle_analyze_batch",
		"pollution_levels",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties missing or not an object")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	wantRequired := map[string]string{
		"card_load":              "path",
		"card_locate":            "path",
		"card_rectify":           "path",
		"card_read_label":        "path",
		"particle_segment":       "path",
		"particle_analyze":       "path",
		"particle_analyze_batch": "paths",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for name, field := range wantRequired {
		t.Run(name, func(t *testing.T) {
			required, ok := toolMap[name].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("InputSchema missing 'required' field")
			}
			found := false
			for _, r := range required {
				if r == field {
					found = true
				}
			}
			if !found {
				t.Errorf("%s not in required %v", field, required)
			}

			props := toolMap[name].InputSchema["properties"].(map[string]interface{})
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required %s has no property schema", r)
				}
			}
		})
	}
}
