package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/feeds"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfs"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfsrt"
)

func upstreamFeedBytes(t *testing.T) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(1738000000),
		},
		Entity: []*gtfsrtpb.FeedEntity{{
			Id: proto.String("e0"),
			TripUpdate: &gtfsrtpb.TripUpdate{
				Trip: &gtfsrtpb.TripDescriptor{
					TripId:  proto.String("t1"),
					RouteId: proto.String("L"),
				},
				StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
					{StopId: proto.String("101N")},
					{StopId: proto.String("GHOST")},
				},
			},
		}},
	}
	b, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

// newTestServer stands up a fake upstream plus a fully wired gateway.
// The returned counter tracks upstream hits.
func newTestServer(t *testing.T) (*Server, *atomic.Int64) {
	t.Helper()
	payload := upstreamFeedBytes(t)
	var hits atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/down":
			w.WriteHeader(http.StatusBadGateway)
		case "/badbytes":
			_, _ = w.Write([]byte("this is not a protobuf feed"))
		default:
			_, _ = w.Write(payload)
		}
	}))
	t.Cleanup(upstream.Close)

	fetcher := gtfsrt.NewClient(2 * time.Second)
	subway := feeds.NewService(feeds.NewRegistry(map[string]string{
		"l":       upstream.URL + "/l",
		"ace":     upstream.URL + "/ace",
		"down":    upstream.URL + "/down",
		"badfmt":  upstream.URL + "/badbytes",
		"default": upstream.URL + "/default",
	}), fetcher)
	rail := feeds.NewService(feeds.NewRegistry(map[string]string{
		KeyLIRR: upstream.URL + "/lirr",
		KeyMNR:  upstream.URL + "/mnr",
	}), fetcher)

	stops := gtfs.NewCache(func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(
			"stop_id,stop_name,stop_lat,stop_lon\n101N,Times Sq,40.7557,-73.9862\n")), nil
	})
	if err := stops.Refresh(context.Background()); err != nil {
		t.Fatalf("stops refresh: %v", err)
	}
	return New(0, subway, rail, stops, NewMetrics()), &hits
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_SubwayFeed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doGet(t, srv.Handler(), "/api/subways/l")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var msg gtfsrt.FeedMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Version != "2.0" || msg.GeneratedAt != 1738000000 {
		t.Errorf("header = %q %d", msg.Version, msg.GeneratedAt)
	}
	if len(msg.Entities) != 1 || msg.Entities[0].ID != "e0" {
		t.Errorf("entities = %+v", msg.Entities)
	}
}

func TestServer_UnknownSubwayKeyIs400(t *testing.T) {
	srv, hits := newTestServer(t)

	rec := doGet(t, srv.Handler(), "/api/subways/xyz")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "invalid feed specified" {
		t.Errorf("error = %q", resp["error"])
	}
	if hits.Load() != 0 {
		t.Errorf("upstream hits = %d; an invalid key must not trigger a fetch", hits.Load())
	}
}

func TestServer_UpstreamDownIs502(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doGet(t, srv.Handler(), "/api/subways/down")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "failed to fetch") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestServer_BadPayloadIsDecodeFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doGet(t, srv.Handler(), "/api/subways/badfmt")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "failed to decode") {
		t.Errorf("body should distinguish decode from fetch failure, got %s", rec.Body)
	}
}

func TestServer_CommuterRailRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/api/lirr", "/api/mnr"} {
		rec := doGet(t, srv.Handler(), path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestServer_EnrichedResponse(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doGet(t, srv.Handler(), "/api/subways/l?enrich=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var msg struct {
		Entities []struct {
			ID    string `json:"id"`
			Calls []struct {
				StopID string `json:"stopId"`
				Known  bool   `json:"known"`
				Name   string `json:"stopName"`
			} `json:"calls"`
		} `json:"entity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	calls := msg.Entities[0].Calls
	if len(calls) != 2 {
		t.Fatalf("calls = %+v", calls)
	}
	if !calls[0].Known || calls[0].Name != "Times Sq" {
		t.Errorf("calls[0] = %+v", calls[0])
	}
	if calls[1].Known || calls[1].StopID != "GHOST" {
		t.Errorf("calls[1] = %+v, want unknown placeholder", calls[1])
	}
}

func TestServer_StopsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doGet(t, srv.Handler(), "/api/stops")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stops []gtfs.Stop
	if err := json.Unmarshal(rec.Body.Bytes(), &stops); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(stops) != 1 || stops[0].ID != "101N" {
		t.Errorf("stops = %+v", stops)
	}
}

func TestServer_HealthAndFeedList(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv.Handler(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var health struct {
		Status    string `json:"status"`
		StopCount int    `json:"stop_count"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &health)
	if health.Status != "ok" || health.StopCount != 1 {
		t.Errorf("health = %+v", health)
	}

	rec = doGet(t, srv.Handler(), "/api/subways")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed list status = %d", rec.Code)
	}
	var list map[string][]string
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list["feeds"]) != 5 {
		t.Errorf("feeds = %v", list["feeds"])
	}
}
