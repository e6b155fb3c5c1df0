package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/voltshop/backend/pkg/helpers"
	"github.com/voltshop/backend/pkg/problem"
)

// Proxy routes requests to upstream service clusters by path prefix.
// Each upstream gets one ReverseProxy; longest prefix wins.
type Proxy struct {
	routes   []route
	logger   *logrus.Logger
	upstream map[string]*url.URL
}

type route struct {
	prefix string
	rp     *httputil.ReverseProxy
}

func NewProxy(routes map[string]string, logger *logrus.Logger) (*Proxy, error) {
	p := &Proxy{logger: logger, upstream: make(map[string]*url.URL)}
	for prefix, target := range routes {
		u, err := url.Parse(target)
		if err != nil {
			return nil, err
		}
		p.upstream[prefix] = u
		p.routes = append(p.routes, route{prefix: prefix, rp: p.buildProxy(u)})
	}
	sort.Slice(p.routes, func(i, j int) bool {
		return len(p.routes[i].prefix) > len(p.routes[j].prefix)
	})
	return p, nil
}

// Upstreams returns the configured upstream base URLs keyed by prefix.
func (p *Proxy) Upstreams() map[string]*url.URL {
	return p.upstream
}

func (p *Proxy) buildProxy(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			relayCredentials(pr.Out, pr.In)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.logger.WithFields(logrus.Fields{
				"path":     r.URL.Path,
				"upstream": target.String(),
			}).WithError(err).Warn("upstream request failed")
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"type":"about:blank","title":"Bad Gateway","status":502}`))
		},
	}
}

// relayCredentials forwards the caller's credentials to the upstream.
// An inbound Authorization header is copied verbatim; only when absent
// is the AccessToken cookie promoted to a bearer header. No validation
// happens here, the upstream decides what the token is worth.
func relayCredentials(out, in *http.Request) {
	if auth := in.Header.Get("Authorization"); auth != "" {
		out.Header.Set("Authorization", auth)
		return
	}
	if cookie, err := in.Cookie(helpers.AccessTokenCookie); err == nil && cookie.Value != "" {
		out.Header.Set("Authorization", "Bearer "+cookie.Value)
	}
}

// Handler serves a request through the matching upstream, or 404s when
// no prefix matches.
func (p *Proxy) Handler(c *gin.Context) {
	for _, r := range p.routes {
		if strings.HasPrefix(c.Request.URL.Path, r.prefix) {
			r.rp.ServeHTTP(c.Writer, c.Request)
			return
		}
	}
	problem.New(http.StatusNotFound, "Not Found").
		WithDetail("no upstream for path").
		Write(c)
}
