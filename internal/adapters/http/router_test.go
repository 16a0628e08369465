package httpadapter

import (
	"context"
	"errors"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
	"github.com/sitebrain/vectorsearch/internal/core/ports"
)

type searchServiceFake struct {
	result *domain.SearchResult
	err    error
	query  string
}

func (f *searchServiceFake) Search(_ context.Context, query string) (*domain.SearchResult, error) {
	f.query = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type chatServiceFake struct {
	reply *domain.ChatReply
	err   error
}

func (f *chatServiceFake) Chat(_ context.Context, sessionID, message string) (*domain.ChatReply, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

type contentWriterFake struct {
	doc *domain.Document
	err error
}

func (f *contentWriterFake) Upsert(_ context.Context, doc *domain.Document) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.doc != nil {
		return f.doc, nil
	}
	return doc, nil
}

type indexerFake struct {
	progress []ports.IndexProgress
	count    int
	err      error
}

func (f *indexerFake) IndexAll(_ context.Context, report func(ports.IndexProgress)) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, p := range f.progress {
		report(p)
	}
	return f.count, nil
}

type settingsStoreFake struct {
	key    string
	stored string
}

func (f *settingsStoreFake) APIKey(context.Context) (string, error) { return f.key, nil }
func (f *settingsStoreFake) SetAPIKey(_ context.Context, key string) error {
	f.stored = key
	return nil
}

type routerFakes struct {
	search   *searchServiceFake
	chat     *chatServiceFake
	content  *contentWriterFake
	indexer  *indexerFake
	settings *settingsStoreFake
}

func newTestRouter(options Options) (*Router, *routerFakes) {
	fakes := &routerFakes{
		search:   &searchServiceFake{err: errors.New("unused")},
		chat:     &chatServiceFake{err: errors.New("unused")},
		content:  &contentWriterFake{},
		indexer:  &indexerFake{},
		settings: &settingsStoreFake{},
	}
	router := NewRouter("api", fakes.search, fakes.chat, fakes.content, fakes.indexer, fakes.settings, nil, options)
	return router, fakes
}
