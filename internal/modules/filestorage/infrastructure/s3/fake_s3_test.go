package s3

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

// fakeS3 speaks the path-style subset of the S3 REST API the storage uses
type fakeS3 struct {
	mu          sync.Mutex
	buckets     map[string]map[string]*fakeObject
	pageSize    int
	unavailable bool
}

func newFakeS3(t *testing.T, buckets ...string) (*fakeS3, *httptest.Server) {
	f := &fakeS3{buckets: map[string]map[string]*fakeObject{}, pageSize: 1000}
	for _, b := range buckets {
		f.buckets[b] = map[string]*fakeObject{}
	}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return f, ts
}

func (f *fakeS3) setUnavailable(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable = v
}

func (f *fakeS3) setPageSize(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageSize = n
}

func (f *fakeS3) object(bucket, key string) *fakeObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[bucket][key]
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unavailable {
		writeS3Error(w, http.StatusServiceUnavailable, "ServiceUnavailable", "backend down")
		return
	}

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	objects, exists := f.buckets[bucket]
	if key == "" {
		switch r.Method {
		case http.MethodHead:
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			if !exists {
				f.buckets[bucket] = map[string]*fakeObject{}
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			if !exists {
				writeS3Error(w, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist")
				return
			}
			f.list(w, r, bucket, objects)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if !exists {
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist")
		return
	}

	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeS3Error(w, http.StatusBadRequest, "IncompleteBody", err.Error())
			return
		}
		meta := map[string]string{}
		for name, values := range r.Header {
			lower := strings.ToLower(name)
			if strings.HasPrefix(lower, "x-amz-meta-") {
				meta[strings.TrimPrefix(lower, "x-amz-meta-")] = values[0]
			}
		}
		objects[key] = &fakeObject{
			data:        data,
			contentType: r.Header.Get("Content-Type"),
			metadata:    meta,
			modified:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		w.Header().Set("ETag", `"`+etag(data)+`"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		obj, ok := objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey", "The specified key does not exist.")
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.data)))
		w.Header().Set("ETag", `"`+etag(obj.data)+`"`)
		w.Header().Set("Last-Modified", obj.modified.Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(obj.data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type listEntry struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	ETag         string `xml:"ETag"`
	Size         int    `xml:"Size"`
	StorageClass string `xml:"StorageClass"`
}

type listResult struct {
	XMLName               xml.Name    `xml:"http://s3.amazonaws.com/doc/2006-03-01/ ListBucketResult"`
	Name                  string      `xml:"Name"`
	Prefix                string      `xml:"Prefix"`
	KeyCount              int         `xml:"KeyCount"`
	MaxKeys               int         `xml:"MaxKeys"`
	IsTruncated           bool        `xml:"IsTruncated"`
	NextContinuationToken string      `xml:"NextContinuationToken,omitempty"`
	Contents              []listEntry `xml:"Contents"`
}

func (f *fakeS3) list(w http.ResponseWriter, r *http.Request, bucket string, objects map[string]*fakeObject) {
	prefix := r.URL.Query().Get("prefix")
	after := r.URL.Query().Get("continuation-token")

	keys := make([]string, 0, len(objects))
	for k := range objects {
		if strings.HasPrefix(k, prefix) && k > after {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	res := listResult{Name: bucket, Prefix: prefix, MaxKeys: f.pageSize}
	if len(keys) > f.pageSize {
		keys = keys[:f.pageSize]
		res.IsTruncated = true
		res.NextContinuationToken = keys[len(keys)-1]
	}
	for _, k := range keys {
		obj := objects[k]
		res.Contents = append(res.Contents, listEntry{
			Key:          k,
			LastModified: obj.modified.Format("2006-01-02T15:04:05.000Z"),
			ETag:         `"` + etag(obj.data) + `"`,
			Size:         len(obj.data),
			StorageClass: "STANDARD",
		})
	}
	res.KeyCount = len(res.Contents)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, xml.Header)
	_ = xml.NewEncoder(w).Encode(res)
}

func writeS3Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message><RequestId>fake</RequestId></Error>`, code, message)
}

func etag(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
