package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/src-d/go-nql/internal/wire"
	"github.com/src-d/go-nql/sql"
)

// Client is a catalog reached over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	ctx     context.Context
}

var _ sql.Catalog = (*Client)(nil)

// NewClient returns a client of the catalog served at the given URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    cleanhttp.DefaultPooledClient(),
		ctx:     context.Background(),
	}
}

// WithContext returns a copy of the client whose requests are bound to the
// given context.
func (c *Client) WithContext(ctx context.Context) *Client {
	nc := *c
	nc.ctx = ctx
	return &nc
}

// WithHTTPClient returns a copy of the client using the given HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	nc := *c
	nc.http = h
	return &nc
}

func unavailable(err error) error {
	return sql.ErrCatalogUnavailable.Wrap(err, err.Error())
}

// do sends a request and decodes the response into out when the status is
// 200. Statuses of the catalog protocol are returned; any other status is an
// error.
func (c *Client) do(method, path string, in, out interface{}) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := wire.Marshal(in)
		if err != nil {
			return 0, unavailable(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return 0, unavailable(err)
	}
	req = req.WithContext(c.ctx)
	if in != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, unavailable(err)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, unavailable(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if out != nil {
			if err := wire.Unmarshal(data, out); err != nil {
				return 0, unavailable(err)
			}
		}
		return resp.StatusCode, nil
	case http.StatusCreated, http.StatusNoContent, http.StatusNotFound, http.StatusConflict:
		return resp.StatusCode, nil
	default:
		return 0, sql.ErrCatalogUnavailable.New(fmt.Sprintf(
			"%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(data)),
		))
	}
}

func escape(name string) string { return url.PathEscape(name) }

// GetTableDesc implements the sql.Catalog interface.
func (c *Client) GetTableDesc(name string) (*sql.TableDesc, error) {
	var rec wire.Table
	status, err := c.do(http.MethodGet, "/tables/"+escape(name), nil, &rec)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, sql.ErrTableNotFound.New(name)
	}

	desc, err := rec.Desc()
	if err != nil {
		return nil, unavailable(err)
	}
	return desc, nil
}

// ExistsTable implements the sql.Catalog interface.
func (c *Client) ExistsTable(name string) (bool, error) {
	status, err := c.do(http.MethodHead, "/tables/"+escape(name), nil, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// GetAllTableNames implements the sql.Catalog interface.
func (c *Client) GetAllTableNames() ([]string, error) {
	var names []string
	if _, err := c.do(http.MethodGet, "/tables", nil, &names); err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// AddTable implements the sql.Catalog interface.
func (c *Client) AddTable(desc *sql.TableDesc) error {
	rec, err := wire.NewTable(desc)
	if err != nil {
		return unavailable(err)
	}

	status, err := c.do(http.MethodPost, "/tables", rec, nil)
	if err != nil {
		return err
	}

	if status == http.StatusConflict {
		return sql.ErrTableAlreadyExists.New(desc.Name)
	}
	return nil
}

// DeleteTable implements the sql.Catalog interface.
func (c *Client) DeleteTable(name string) error {
	status, err := c.do(http.MethodDelete, "/tables/"+escape(name), nil, nil)
	if err != nil {
		return err
	}

	if status == http.StatusNotFound {
		return sql.ErrTableNotFound.New(name)
	}
	return nil
}

// GetFunctions implements the sql.Catalog interface.
func (c *Client) GetFunctions() ([]*sql.FunctionDesc, error) {
	var recs []*wire.Function
	if _, err := c.do(http.MethodGet, "/functions", nil, &recs); err != nil {
		return nil, err
	}

	fns := make([]*sql.FunctionDesc, len(recs))
	for i, rec := range recs {
		desc, err := rec.Desc()
		if err != nil {
			return nil, unavailable(err)
		}
		fns[i] = desc
	}
	return fns, nil
}

// RegisterFunction implements the sql.Catalog interface.
func (c *Client) RegisterFunction(desc *sql.FunctionDesc) error {
	status, err := c.do(http.MethodPost, "/functions", wire.NewFunction(desc), nil)
	if err != nil {
		return err
	}

	if status == http.StatusConflict {
		return sql.ErrFunctionAlreadyExists.New(strings.ToLower(desc.Name), sql.TypeList(desc.Params))
	}
	return nil
}

func signature(name string, params []sql.Type) *wire.Signature {
	return &wire.Signature{Name: name, Params: wire.TypeNames(params)}
}

// UnregisterFunction implements the sql.Catalog interface.
func (c *Client) UnregisterFunction(name string, params []sql.Type) error {
	status, err := c.do(http.MethodPost, "/functions/unregister", signature(name, params), nil)
	if err != nil {
		return err
	}

	if status == http.StatusNotFound {
		return sql.ErrFunctionNotFound.New(strings.ToLower(name), sql.TypeList(params))
	}
	return nil
}

// GetFunctionMeta implements the sql.Catalog interface.
func (c *Client) GetFunctionMeta(name string, params []sql.Type) (*sql.FunctionDesc, error) {
	var rec wire.Function
	status, err := c.do(http.MethodPost, "/functions/lookup", signature(name, params), &rec)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, sql.ErrFunctionNotFound.New(strings.ToLower(name), sql.TypeList(params))
	}

	desc, err := rec.Desc()
	if err != nil {
		return nil, unavailable(err)
	}
	return desc, nil
}

// ContainFunction implements the sql.Catalog interface.
func (c *Client) ContainFunction(name string, params []sql.Type) (bool, error) {
	_, err := c.GetFunctionMeta(name, params)
	switch {
	case err == nil:
		return true, nil
	case sql.ErrFunctionNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// AddIndex implements the sql.Catalog interface.
func (c *Client) AddIndex(desc *sql.IndexDesc) error {
	status, err := c.do(http.MethodPost, "/indexes", wire.NewIndex(desc), nil)
	if err != nil {
		return err
	}

	if status == http.StatusConflict {
		return sql.ErrIndexAlreadyExists.New(desc.Name)
	}
	return nil
}

// ExistIndex implements the sql.Catalog interface.
func (c *Client) ExistIndex(name string) (bool, error) {
	status, err := c.do(http.MethodHead, "/indexes/"+escape(name), nil, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// GetIndex implements the sql.Catalog interface.
func (c *Client) GetIndex(name string) (*sql.IndexDesc, error) {
	var rec wire.Index
	status, err := c.do(http.MethodGet, "/indexes/"+escape(name), nil, &rec)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, sql.ErrIndexNotFound.New(name)
	}

	desc, err := rec.Desc()
	if err != nil {
		return nil, unavailable(err)
	}
	return desc, nil
}

// DelIndex implements the sql.Catalog interface.
func (c *Client) DelIndex(name string) error {
	status, err := c.do(http.MethodDelete, "/indexes/"+escape(name), nil, nil)
	if err != nil {
		return err
	}

	if status == http.StatusNotFound {
		return sql.ErrIndexNotFound.New(name)
	}
	return nil
}
