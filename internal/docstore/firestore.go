package docstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// DefaultFirestoreURL is the public Firestore REST endpoint.
const DefaultFirestoreURL = "https://firestore.googleapis.com/v1"

// FirestoreConfig configures a FirestoreStore.
type FirestoreConfig struct {
	ProjectID string
	APIKey    string
	// BaseURL overrides DefaultFirestoreURL (tests point it at a local server).
	BaseURL string
	Timeout time.Duration
}

// FirestoreStore talks to Cloud Firestore through its REST API using the
// project's web API key.
type FirestoreStore struct {
	client   *resty.Client
	database string
}

// NewFirestoreStore creates a FirestoreStore for the project's default database.
func NewFirestoreStore(cfg FirestoreConfig) *FirestoreStore {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultFirestoreURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetQueryParam("key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &FirestoreStore{
		client:   client,
		database: "projects/" + cfg.ProjectID + "/databases/(default)",
	}
}

var _ Store = (*FirestoreStore)(nil)

type fsDocument struct {
	Name   string         `json:"name,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

type fsWrite struct {
	Update           fsDocument         `json:"update"`
	UpdateTransforms []fsFieldTransform `json:"updateTransforms,omitempty"`
	CurrentDocument  map[string]bool    `json:"currentDocument"`
}

type fsFieldTransform struct {
	FieldPath        string `json:"fieldPath"`
	SetToServerValue string `json:"setToServerValue"`
}

type fsRunQueryResult struct {
	Document *fsDocument `json:"document"`
}

type fsError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Insert commits a create-only write. ServerTimestamp fields become
// REQUEST_TIME transforms so Firestore assigns them.
func (s *FirestoreStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := validate(collection); err != nil {
		return "", err
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	fields := make(map[string]any, len(doc))
	var transforms []fsFieldTransform
	for k, v := range doc {
		if IsServerTimestamp(v) {
			transforms = append(transforms, fsFieldTransform{FieldPath: fieldPath(k), SetToServerValue: "REQUEST_TIME"})
			continue
		}
		enc, err := encodeValue(v)
		if err != nil {
			return "", fmt.Errorf("docstore: encode %s.%s: %w", collection, k, err)
		}
		fields[k] = enc
	}

	body := map[string]any{
		"writes": []fsWrite{{
			Update:           fsDocument{Name: s.database + "/documents/" + collection + "/" + id, Fields: fields},
			UpdateTransforms: transforms,
			CurrentDocument:  map[string]bool{"exists": false},
		}},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&fsError{}).
		Post("/" + s.database + "/documents:commit")
	if err != nil {
		return "", transportError("commit", err)
	}
	if resp.IsError() {
		return "", responseError("commit", resp)
	}
	return id, nil
}

// Query runs a structured query over a single collection.
func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	if err := validate(collection); err != nil {
		return nil, err
	}

	sq := map[string]any{
		"from": []map[string]any{{"collectionId": collection}},
	}
	if q.OrderBy != "" {
		dir := "ASCENDING"
		if q.Direction == Descending {
			dir = "DESCENDING"
		}
		sq["orderBy"] = []map[string]any{{
			"field":     map[string]string{"fieldPath": fieldPath(q.OrderBy)},
			"direction": dir,
		}}
	}
	if q.Limit > 0 {
		sq["limit"] = q.Limit
	}

	var results []fsRunQueryResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"structuredQuery": sq}).
		SetResult(&results).
		SetError(&fsError{}).
		Post("/" + s.database + "/documents:runQuery")
	if err != nil {
		return nil, transportError("runQuery", err)
	}
	if resp.IsError() {
		return nil, responseError("runQuery", resp)
	}

	out := make([]Snapshot, 0, len(results))
	for _, r := range results {
		// runQuery emits progress entries without a document
		if r.Document == nil {
			continue
		}
		data := make(Document, len(r.Document.Fields))
		for k, v := range r.Document.Fields {
			dec, err := decodeValue(v)
			if err != nil {
				return nil, fmt.Errorf("docstore: decode %s.%s: %w", collection, k, err)
			}
			data[k] = dec
		}
		out = append(out, Snapshot{ID: r.Document.Name[strings.LastIndex(r.Document.Name, "/")+1:], Data: data})
	}
	return out, nil
}

// Ping lists at most one collection ID to check the key and project.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]int{"pageSize": 1}).
		SetError(&fsError{}).
		Post("/" + s.database + "/documents:listCollectionIds")
	if err != nil {
		return transportError("ping", err)
	}
	if resp.IsError() {
		return responseError("ping", resp)
	}
	return nil
}

func (s *FirestoreStore) Close() {}

func responseError(op string, resp *resty.Response) error {
	if e, ok := resp.Error().(*fsError); ok && e.Error.Message != "" {
		return fmt.Errorf("docstore: firestore %s: %d %s: %s", op, resp.StatusCode(), e.Error.Status, e.Error.Message)
	}
	return fmt.Errorf("docstore: firestore %s: %s", op, resp.Status())
}

// transportError wraps a failed round trip. The request URL carries the API
// key, so it is dropped from the message.
func transportError(op string, err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = &url.Error{Op: ue.Op, URL: redactKey(ue.URL), Err: ue.Err}
	}
	return fmt.Errorf("docstore: firestore %s: %w", op, err)
}

func redactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable url]"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

var simpleFieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

func fieldPath(name string) string {
	if simpleFieldName.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}

func encodeValue(v any) (map[string]any, error) {
	switch x := v.(type) {
	case nil:
		return map[string]any{"nullValue": nil}, nil
	case string:
		return map[string]any{"stringValue": x}, nil
	case bool:
		return map[string]any{"booleanValue": x}, nil
	case int:
		return map[string]any{"integerValue": strconv.Itoa(x)}, nil
	case int32:
		return map[string]any{"integerValue": strconv.FormatInt(int64(x), 10)}, nil
	case int64:
		return map[string]any{"integerValue": strconv.FormatInt(x, 10)}, nil
	case float64:
		return map[string]any{"doubleValue": x}, nil
	case time.Time:
		return map[string]any{"timestampValue": x.UTC().Format(time.RFC3339Nano)}, nil
	case Document:
		return encodeMap(x)
	case map[string]any:
		return encodeMap(x)
	case []string:
		values := make([]any, len(x))
		for i, s := range x {
			values[i] = map[string]any{"stringValue": s}
		}
		return map[string]any{"arrayValue": map[string]any{"values": values}}, nil
	case []any:
		values := make([]any, len(x))
		for i, item := range x {
			enc, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			values[i] = enc
		}
		return map[string]any{"arrayValue": map[string]any{"values": values}}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func encodeMap(m map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(m))
	for k, item := range m {
		enc, err := encodeValue(item)
		if err != nil {
			return nil, err
		}
		fields[k] = enc
	}
	return map[string]any{"mapValue": map[string]any{"fields": fields}}, nil
}

func decodeValue(raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("malformed value %T", raw)
	}
	for kind, v := range m {
		switch kind {
		case "nullValue":
			return nil, nil
		case "stringValue", "referenceValue", "bytesValue":
			return v, nil
		case "booleanValue":
			return v, nil
		case "integerValue":
			s, _ := v.(string)
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("integerValue %q: %w", s, err)
			}
			return n, nil
		case "doubleValue":
			return v, nil
		case "timestampValue":
			s, _ := v.(string)
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("timestampValue %q: %w", s, err)
			}
			return t, nil
		case "mapValue":
			inner, _ := v.(map[string]any)
			fields, _ := inner["fields"].(map[string]any)
			out := make(map[string]any, len(fields))
			for k, item := range fields {
				dec, err := decodeValue(item)
				if err != nil {
					return nil, err
				}
				out[k] = dec
			}
			return out, nil
		case "arrayValue":
			inner, _ := v.(map[string]any)
			values, _ := inner["values"].([]any)
			out := make([]any, len(values))
			for i, item := range values {
				dec, err := decodeValue(item)
				if err != nil {
					return nil, err
				}
				out[i] = dec
			}
			return out, nil
		case "geoPointValue":
			return v, nil
		}
	}
	return nil, fmt.Errorf("unknown value kind in %v", m)
}
