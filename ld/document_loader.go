// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/cachecontrol"
)

const (
	// An HTTP Accept header that prefers JSONLD.
	acceptHeader = "application/ld+json, application/json;q=0.9, text/plain;q=0.2, */*;q=0.1"

	ApplicationJSONLDType = "application/ld+json"

	// JSON-LD link header rel
	linkHeaderRel = "http://www.w3.org/ns/json-ld#context"
)

// ErrMalformedDocument is wrapped into LoadingDocumentFailed errors when a
// document was retrieved but is not valid JSON. Network and file system
// failures wrap their own errors instead.
var ErrMalformedDocument = errors.New("malformed JSON document")

// RemoteDocument is a document retrieved from a remote source.
type RemoteDocument struct {
	DocumentURL string
	Document    Value
	ContextURL  string
}

// DocumentLoader knows how to load remote documents. Implementations must
// tolerate being called again while a previous call's result is still being
// processed, since context processing loads contexts recursively.
type DocumentLoader interface {
	LoadDocument(u string) (*RemoteDocument, error)
}

// DocumentLoaderFunc adapts a function to the DocumentLoader interface.
type DocumentLoaderFunc func(u string) (*RemoteDocument, error)

func (f DocumentLoaderFunc) LoadDocument(u string) (*RemoteDocument, error) {
	return f(u)
}

// DocumentFromReader returns a document containing the contents of the JSON resource,
// streamed from the given Reader.
func DocumentFromReader(r io.Reader) (Value, error) {
	doc, err := DecodeJSON(r)
	if err != nil {
		return Null, NewJsonLdError(LoadingDocumentFailed, fmt.Errorf("%w: %w", ErrMalformedDocument, err))
	}
	return doc, nil
}

// DefaultDocumentLoader is a standard implementation of DocumentLoader
// which can retrieve documents via HTTP or from the local file system.
type DefaultDocumentLoader struct {
	httpClient *http.Client
}

// NewDefaultDocumentLoader creates a new instance of DefaultDocumentLoader
func NewDefaultDocumentLoader(httpClient *http.Client) *DefaultDocumentLoader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DefaultDocumentLoader{httpClient: httpClient}
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (dl *DefaultDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	doc, _, err := fetchDocument(dl.httpClient, u, dl.LoadDocument)
	return doc, err
}

// fetchDocument loads u over HTTP(S) or from a file. For HTTP responses it
// also returns the request/response pair so that callers can inspect cache
// headers. follow is used for rel=alternate redirects.
func fetchDocument(client *http.Client, u string, follow DocumentLoaderFunc) (*RemoteDocument, *httpExchange, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, nil, NewJsonLdError(LoadingDocumentFailed, fmt.Errorf("error parsing URL %s: %w", u, err))
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		path := u
		if parsedURL.Scheme == "file" {
			path = parsedURL.Path
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		defer f.Close()

		doc, err := DocumentFromReader(f)
		if err != nil {
			return nil, nil, err
		}
		return &RemoteDocument{DocumentURL: u, Document: doc}, nil, nil
	}

	req, err := http.NewRequest(http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	req.Header.Add("Accept", acceptHeader)

	res, err := client.Do(req)
	if err != nil {
		return nil, nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("bad response status code: %d", res.StatusCode))
	}

	remoteDoc := &RemoteDocument{DocumentURL: res.Request.URL.String()}
	exchange := &httpExchange{req: req, res: res}

	contentType, _, _ := strings.Cut(res.Header.Get("Content-Type"), ";")
	contentType = strings.TrimSpace(contentType)

	if linkHeader := res.Header.Get("Link"); linkHeader != "" {
		links := ParseLinkHeader(linkHeader)

		if contextLinks := links[linkHeaderRel]; len(contextLinks) > 0 && contentType != ApplicationJSONLDType &&
			rApplicationJSON.MatchString(contentType) {
			if len(contextLinks) > 1 {
				return nil, nil, NewJsonLdError(MultipleContextLinkHeaders, u)
			}
			remoteDoc.ContextURL = Resolve(remoteDoc.DocumentURL, contextLinks[0]["target"])
		}

		// a non-JSON response may point at a JSON-LD alternate
		if alternates := links["alternate"]; len(alternates) > 0 &&
			alternates[0]["type"] == ApplicationJSONLDType &&
			!rApplicationJSON.MatchString(contentType) {
			doc, err := follow(Resolve(u, alternates[0]["target"]))
			return doc, exchange, err
		}
	}

	remoteDoc.Document, err = DocumentFromReader(res.Body)
	if err != nil {
		return nil, nil, err
	}
	return remoteDoc, exchange, nil
}

type httpExchange struct {
	req *http.Request
	res *http.Response
}

var (
	rSplitOnComma    = regexp.MustCompile(`(?:<[^>]*?>|"[^"]*?"|[^,])+`)
	rLinkHeader      = regexp.MustCompile(`\s*<([^>]*?)>\s*(?:;\s*(.*))?`)
	rApplicationJSON = regexp.MustCompile(`^application/(\w*\+)?json$`)
	rParams          = regexp.MustCompile(`(.*?)=(?:"([^"]*?)"|([^"]*?))\s*(?:;\s*|$)`)
)

// ParseLinkHeader parses an HTTP Link header. Entries are keyed by their
// "rel" parameter; every entry carries its "target" plus all parameters.
//
//	Link: <http://json-ld.org/contexts/person.jsonld>; \
//	  rel="http://www.w3.org/ns/json-ld#context"; type="application/ld+json"
func ParseLinkHeader(header string) map[string][]map[string]string {
	rval := make(map[string][]map[string]string)

	for _, entry := range rSplitOnComma.FindAllString(header, -1) {
		match := rLinkHeader.FindStringSubmatch(entry)
		if match == nil {
			continue
		}
		link := map[string]string{
			"target": match[1],
		}
		for _, param := range rParams.FindAllStringSubmatch(match[2], -1) {
			key := strings.TrimSpace(param[1])
			if param[2] != "" {
				link[key] = param[2]
			} else {
				link[key] = param[3]
			}
		}
		rel := link["rel"]
		rval[rel] = append(rval[rel], link)
	}
	return rval
}

// CachingDocumentLoader is an overlay on top of DocumentLoader instance
// which caches documents as soon as they get retrieved from the underlying
// loader. It is safe for concurrent use. You may also preload it with
// documents, which is useful for testing and for offline contexts.
type CachingDocumentLoader struct {
	nextLoader DocumentLoader

	mu    sync.RWMutex
	cache map[string]*RemoteDocument
}

// NewCachingDocumentLoader creates a new instance of CachingDocumentLoader.
func NewCachingDocumentLoader(nextLoader DocumentLoader) *CachingDocumentLoader {
	return &CachingDocumentLoader{
		nextLoader: nextLoader,
		cache:      make(map[string]*RemoteDocument),
	}
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (cdl *CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	cdl.mu.RLock()
	doc, cached := cdl.cache[u]
	cdl.mu.RUnlock()
	if cached {
		return doc, nil
	}

	// the lock is not held while loading: the next loader may call back
	// into this one
	doc, err := cdl.nextLoader.LoadDocument(u)
	if err != nil {
		return nil, err
	}

	cdl.mu.Lock()
	cdl.cache[u] = doc
	cdl.mu.Unlock()
	return doc, nil
}

// AddDocument populates the cache with the given document (doc) for the provided URL (u).
func (cdl *CachingDocumentLoader) AddDocument(u string, doc Value) {
	cdl.mu.Lock()
	defer cdl.mu.Unlock()
	cdl.cache[u] = &RemoteDocument{DocumentURL: u, Document: doc}
}

// PreloadWithMapping populates the cache with a number of documents which may be loaded
// from location different from the original URL (most importantly, from local files).
//
// Example:
//
//	l.PreloadWithMapping(map[string]string{
//	    "http://www.example.com/context.json": "/home/me/cache/example_com_context.json",
//	})
func (cdl *CachingDocumentLoader) PreloadWithMapping(urlMap map[string]string) error {
	for srcURL, mappedURL := range urlMap {
		doc, err := cdl.nextLoader.LoadDocument(mappedURL)
		if err != nil {
			return err
		}
		preloaded := *doc
		preloaded.DocumentURL = srcURL

		cdl.mu.Lock()
		cdl.cache[srcURL] = &preloaded
		cdl.mu.Unlock()
	}
	return nil
}

type cachedRemoteDocument struct {
	remoteDocument *RemoteDocument
	expireTime     time.Time
	neverExpires   bool
}

// RFC7234CachingDocumentLoader caches documents for as long as the HTTP
// caching headers of their responses allow. Local files never expire.
type RFC7234CachingDocumentLoader struct {
	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]*cachedRemoteDocument
}

// NewRFC7234CachingDocumentLoader creates a new RFC7234CachingDocumentLoader
func NewRFC7234CachingDocumentLoader(httpClient *http.Client) *RFC7234CachingDocumentLoader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RFC7234CachingDocumentLoader{
		httpClient: httpClient,
		now:        time.Now,
		cache:      make(map[string]*cachedRemoteDocument),
	}
}

// LoadDocument returns a RemoteDocument containing the contents of the JSON resource
// from the given URL.
func (rcdl *RFC7234CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	rcdl.mu.Lock()
	entry, ok := rcdl.cache[u]
	rcdl.mu.Unlock()

	if ok && (entry.neverExpires || entry.expireTime.After(rcdl.now())) {
		return entry.remoteDocument, nil
	}

	doc, exchange, err := fetchDocument(rcdl.httpClient, u, rcdl.LoadDocument)
	if err != nil {
		return nil, err
	}

	newEntry := &cachedRemoteDocument{remoteDocument: doc}
	if exchange == nil {
		newEntry.neverExpires = true
	} else {
		reasons, expires, err := cachecontrol.CachableResponse(exchange.req, exchange.res, cachecontrol.Options{})
		if err != nil || len(reasons) > 0 {
			return doc, nil
		}
		newEntry.expireTime = expires
	}

	rcdl.mu.Lock()
	rcdl.cache[u] = newEntry
	rcdl.mu.Unlock()

	return doc, nil
}
