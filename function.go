package textdigest

import (
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"textdigest/internal/transport/server"
)

func init() {
	// Register HTTP function for serverless deployments
	functions.HTTP("AnalyzeText", AnalyzeText)
}

// AnalyzeText is the Cloud Functions entrypoint. Each invocation builds
// a fully wired handler and routes the request through it.
func AnalyzeText(w http.ResponseWriter, r *http.Request) {
	server.HandleRequest(w, r)
}
