package handler

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// DocsHandler serves the OpenAPI description of the service
type DocsHandler struct {
	yamlDoc []byte
	jsonDoc []byte
}

// NewDocsHandler parses the embedded document once and stamps the build
// version into info.version.
func NewDocsHandler(version string) (*DocsHandler, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if info, ok := doc["info"].(map[string]interface{}); ok && version != "" {
		info["version"] = version
	}

	jsonDoc, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	yamlDoc, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	return &DocsHandler{yamlDoc: yamlDoc, jsonDoc: jsonDoc}, nil
}

// JSON handles GET /v3/api-docs
func (h *DocsHandler) JSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.jsonDoc)
}

// YAML handles GET /v3/api-docs.yaml
func (h *DocsHandler) YAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.yamlDoc)
}

// stringKeys converts YAML maps with non-string keys into JSON-encodable
// maps.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []interface{}:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}
