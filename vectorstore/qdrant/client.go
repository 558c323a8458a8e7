package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/creastat/chatsync/vectorstore"
	"github.com/qdrant/go-client/qdrant"
)

// Payload keys written for every point.
const (
	payloadContent        = "content"
	payloadNamespace      = "namespace"
	payloadConversationID = "conversation_id"
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// CollectionName is the name of the collection holding archive points.
	CollectionName string

	// APIKey is optional API key for authentication.
	APIKey string

	// Dimension is the vector size used when the collection is created.
	Dimension int
}

// Client implements vectorstore.VectorStore for Qdrant.
type Client struct {
	client         *qdrant.Client
	collectionName string
	dimension      int
}

// New creates a new Qdrant client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if cfg.CollectionName == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}

	host, port, useTLS, err := parseAddress(cfg.URL)
	if err != nil {
		return nil, err
	}

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	dim := cfg.Dimension
	if dim <= 0 {
		dim = vectorstore.DefaultDimension
	}

	return &Client{
		client:         qdrantClient,
		collectionName: cfg.CollectionName,
		dimension:      dim,
	}, nil
}

// parseAddress splits a Qdrant URL into gRPC host, port and TLS flag.
// Scheme-less addresses are treated as https; the port defaults to 6334.
func parseAddress(raw string) (string, int, bool, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	return u.Hostname(), port, u.Scheme == "https", nil
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist yet.
func (c *Client) EnsureCollection(ctx context.Context) error {
	exists, err := c.client.CollectionExists(ctx, c.collectionName)
	if err != nil {
		return fmt.Errorf("qdrant collection check failed: %w", err)
	}
	if exists {
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(c.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant create collection failed: %w", err)
	}
	return nil
}

// Upsert implements vectorstore.VectorStore.
func (c *Client) Upsert(ctx context.Context, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		payload := map[string]any{
			payloadContent:        p.Content,
			payloadNamespace:      p.Namespace,
			payloadConversationID: p.ConversationID,
		}
		for k, v := range p.Metadata {
			payload[k] = v
		}

		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	wait := true
	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Wait:           &wait,
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Search implements vectorstore.VectorStore.
func (c *Client) Search(ctx context.Context, vector []float32, filter vectorstore.SearchFilter, limit int) ([]vectorstore.SearchResult, error) {
	limitUint64 := uint64(limit)
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limitUint64,
		Filter:         buildQdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	results := make([]vectorstore.SearchResult, 0, len(points))
	for _, point := range points {
		if filter.MinScore > 0 && point.Score < filter.MinScore {
			continue
		}

		result := vectorstore.SearchResult{
			Score:    point.Score,
			Metadata: make(map[string]string),
		}

		if point.Id != nil {
			if id := point.Id.GetUuid(); id != "" {
				result.ID = id
			} else if num := point.Id.GetNum(); num != 0 {
				result.ID = strconv.FormatUint(num, 10)
			}
		}

		for k, v := range point.Payload {
			str := v.GetStringValue()
			switch k {
			case payloadContent:
				result.Content = str
			case payloadNamespace:
				result.Namespace = str
			case payloadConversationID:
				result.ConversationID = str
			default:
				if str != "" {
					result.Metadata[k] = str
				}
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// Close implements vectorstore.VectorStore.
func (c *Client) Close() error {
	return c.client.Close()
}

// buildQdrantFilter converts SearchFilter to a Qdrant Filter.
func buildQdrantFilter(filter vectorstore.SearchFilter) *qdrant.Filter {
	var conditions []*qdrant.Condition

	if filter.Namespace != "" {
		conditions = append(conditions, qdrant.NewMatch(payloadNamespace, filter.Namespace))
	}
	for key, value := range filter.Metadata {
		conditions = append(conditions, qdrant.NewMatch(key, value))
	}

	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: conditions}
}

// Compile-time check that Client implements VectorStore.
var _ vectorstore.VectorStore = (*Client)(nil)
