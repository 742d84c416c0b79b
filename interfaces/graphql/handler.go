package graphql

import (
	"encoding/json"
	"net/http"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"

	"graphryder-api/application/loaders"
)

// Handler executes GraphQL requests. POST bodies go through the relay handler,
// GET requests carry the query in the URL. Each request gets its own relation
// loader.
type Handler struct {
	schema   *graphql.Schema
	relay    *relay.Handler
	loaders  *loaders.Factory
	graphiql bool
	logger   *zap.Logger
}

// NewHandler creates the /graphql handler. graphiql enables the in-browser IDE
// for GET requests that accept HTML.
func NewHandler(schema *graphql.Schema, factory *loaders.Factory, graphiql bool, logger *zap.Logger) *Handler {
	return &Handler{
		schema:   schema,
		relay:    &relay.Handler{Schema: schema},
		loaders:  factory,
		graphiql: graphiql,
		logger:   logger.Named("graphql"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.relay.ServeHTTP(w, h.withLoader(r))
	case http.MethodGet:
		if r.URL.Query().Get("query") == "" {
			if h.graphiql && strings.Contains(r.Header.Get("Accept"), "text/html") {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write(graphiqlPage)
				return
			}
			http.Error(w, "missing query parameter", http.StatusBadRequest)
			return
		}
		h.serveGet(w, h.withLoader(r))
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) withLoader(r *http.Request) *http.Request {
	return r.WithContext(loaders.WithLoader(r.Context(), h.loaders.New()))
}

func (h *Handler) serveGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var variables map[string]interface{}
	if raw := q.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variables); err != nil {
			http.Error(w, "variables must be a JSON object", http.StatusBadRequest)
			return
		}
	}

	response := h.schema.Exec(r.Context(), q.Get("query"), q.Get("operationName"), variables)
	body, err := json.Marshal(response)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

var graphiqlPage = []byte(`<!DOCTYPE html>
<html>
  <head>
    <title>graphryder</title>
    <link href="https://unpkg.com/graphiql@3/graphiql.min.css" rel="stylesheet" />
    <style>body { height: 100vh; margin: 0; } #graphiql { height: 100vh; }</style>
  </head>
  <body>
    <div id="graphiql">Loading...</div>
    <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
    <script>
      const fetcher = GraphiQL.createFetcher({ url: window.location.pathname });
      ReactDOM.createRoot(document.getElementById('graphiql'))
        .render(React.createElement(GraphiQL, { fetcher: fetcher }));
    </script>
  </body>
</html>
`)
