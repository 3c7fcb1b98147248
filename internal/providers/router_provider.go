package providers

import (
	"net/http"

	"fbconsole/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(url, http.MethodGet, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(url, http.MethodPost, handler)
}

// add merges handlers registered for the same url so that one path can
// answer several methods on a single ServeMux entry.
func (rp *RouterProvider) add(url, method string, handler http.Handler) {
	for i, route := range rp.routes {
		if route.Url == url {
			if mh, ok := route.Handler.(methodHandlers); ok {
				mh[method] = handler
				rp.routes[i].Handler = mh
				return
			}
		}
	}
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: methodHandlers{method: handler},
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

type methodHandlers map[string]http.Handler

func (mh methodHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler, ok := mh[r.Method]
	if !ok && r.Method == http.MethodHead {
		handler, ok = mh[http.MethodGet]
	}
	if !ok {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	handler.ServeHTTP(w, r)
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return methodHandlers{method: handler}
}
