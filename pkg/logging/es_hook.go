package logging

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
)

// NewESClient creates an Elasticsearch client with sane defaults and
// optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// ESHook ships log entries to an Elasticsearch index. Indexing is
// best-effort: failures never block or fail the request being logged.
type ESHook struct {
	Client *elasticsearch.Client
	Index  string
	levels []logrus.Level
}

// NewESHook builds a hook indexing Info and above.
func NewESHook(client *elasticsearch.Client, index string) *ESHook {
	return &ESHook{
		Client: client,
		Index:  index,
		levels: []logrus.Level{
			logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel,
			logrus.WarnLevel, logrus.InfoLevel,
		},
	}
}

// Levels implements logrus.Hook.
func (h *ESHook) Levels() []logrus.Level { return h.levels }

// Fire implements logrus.Hook.
func (h *ESHook) Fire(entry *logrus.Entry) error {
	if h.Client == nil || h.Index == "" {
		return nil
	}
	doc := make(map[string]any, len(entry.Data)+3)
	for k, v := range entry.Data {
		doc[k] = v
	}
	doc["message"] = entry.Message
	doc["level"] = entry.Level.String()
	doc["@timestamp"] = entry.Time.UTC().Format(time.RFC3339Nano)

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: h.Index, Body: strings.NewReader(string(b))}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	res, err := req.Do(ctx, h.Client)
	if err != nil {
		return nil // best-effort sink
	}
	_ = res.Body.Close()
	return nil
}
