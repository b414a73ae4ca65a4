package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ObjectStore is the resume bucket. Object names embed the owning user id
// and an upload timestamp so concurrent uploads never collide.
type ObjectStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	List(ctx context.Context) ([]ObjectInfo, error)
	Delete(ctx context.Context, name string) error
	PublicURL(name string) string
}

// ObjectName builds the collision-free bucket key for an upload.
func ObjectName(userID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", userID, now.Unix(), filename)
}

// BucketClient talks to an S3-compatible object API over HTTP.
type BucketClient struct {
	client   *resty.Client
	endpoint string
	bucket   string
}

func NewBucketClient(endpoint, bucket, apiKey string) *BucketClient {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetAuthToken(apiKey)
	return &BucketClient{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
	}
}

func (b *BucketClient) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Post(fmt.Sprintf("%s/object/%s/%s", b.endpoint, b.bucket, name))
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("storage upload failed: %s", resp.Status())
	}
	return b.PublicURL(name), nil
}

func (b *BucketClient) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&objects).
		Get(fmt.Sprintf("%s/object/list/%s", b.endpoint, b.bucket))
	if err != nil {
		return nil, fmt.Errorf("storage list failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("storage list failed: %s", resp.Status())
	}
	return objects, nil
}

func (b *BucketClient) Delete(ctx context.Context, name string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("%s/object/%s/%s", b.endpoint, b.bucket, name))
	if err != nil {
		return fmt.Errorf("storage delete failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return ErrObjectNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("storage delete failed: %s", resp.Status())
	}
	return nil
}

func (b *BucketClient) PublicURL(name string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", b.endpoint, b.bucket, name)
}

// MemoryStore keeps objects in memory. Used by tests and as the dev
// fallback when no storage endpoint is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
}

type memObject struct {
	data      []byte
	createdAt time.Time
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memObject),
		baseURL: baseURL,
	}
}

func (m *MemoryStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[name] = memObject{data: buf, createdAt: time.Now()}
	return m.PublicURL(name), nil
}

func (m *MemoryStore) List(ctx context.Context) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]ObjectInfo, 0, len(m.objects))
	for name, obj := range m.objects {
		infos = append(infos, ObjectInfo{Name: name, CreatedAt: obj.createdAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[name]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, name)
	return nil
}

func (m *MemoryStore) PublicURL(name string) string {
	return m.baseURL + "/" + name
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
