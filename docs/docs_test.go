package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestRegisteredDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc failed: %v", err)
	}

	var swagger struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]any         `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &swagger); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if swagger.Info.Title != "GreenGauge API" {
		t.Errorf("title = %q", swagger.Info.Title)
	}
	for _, p := range []string{"/save-purchase", "/purchase-history/{userId}", "/leaderboard", "/api/posts/{id}/like", "/stores"} {
		if _, ok := swagger.Paths[p]; !ok {
			t.Errorf("path %s missing from document", p)
		}
	}
}
