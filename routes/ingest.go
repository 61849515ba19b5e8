package routes

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"devevent/config"
)

// newIngestProxy forwards /ingest/static/* to the analytics assets host and
// every other /ingest/* path to the ingestion host, with the prefix stripped.
func newIngestProxy(conf config.Analytics) (gin.HandlerFunc, error) {
	api, err := parseHost(conf.Host)
	if err != nil {
		return nil, err
	}
	assets, err := parseHost(conf.AssetsHost)
	if err != nil {
		return nil, err
	}
	apiProxy := reverseProxy(api)
	assetsProxy := reverseProxy(assets)

	return func(c *gin.Context) {
		path := c.Param("path")
		if path == "" {
			path = "/"
		}
		target := apiProxy
		if strings.HasPrefix(path, "/static/") {
			target = assetsProxy
		}
		// c.Request keeps its /ingest path for the access log.
		out := c.Request.Clone(c.Request.Context())
		out.URL.Path = path
		out.URL.RawPath = ""
		target.ServeHTTP(c.Writer, out)
	}, nil
}

func parseHost(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("analytics host %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("analytics host %q: scheme and host are required", raw)
	}
	return u, nil
}

func reverseProxy(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithError(err).Warnf("ingest proxy to %s failed", target.Host)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}
