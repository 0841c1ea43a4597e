// Package remote serves a catalog over HTTP and provides the client to reach
// it. Bodies are msgpack records of package wire.
package remote

import (
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/src-d/go-nql/internal/wire"
	"github.com/src-d/go-nql/sql"
)

const contentType = "application/x-msgpack"

// Server exposes a catalog over HTTP.
type Server struct {
	catalog sql.Catalog
	router  *mux.Router
	log     *logrus.Entry
}

// NewServer creates a server for the given catalog.
func NewServer(c sql.Catalog, logger *logrus.Logger) *Server {
	s := &Server{
		catalog: c,
		router:  mux.NewRouter(),
		log:     logger.WithField("system", "catalog-server"),
	}

	r := s.router
	r.HandleFunc("/tables", s.getAllTableNames).Methods(http.MethodGet)
	r.HandleFunc("/tables", s.addTable).Methods(http.MethodPost)
	r.HandleFunc("/tables/{name}", s.getTableDesc).Methods(http.MethodGet)
	r.HandleFunc("/tables/{name}", s.existsTable).Methods(http.MethodHead)
	r.HandleFunc("/tables/{name}", s.deleteTable).Methods(http.MethodDelete)

	r.HandleFunc("/functions", s.getFunctions).Methods(http.MethodGet)
	r.HandleFunc("/functions", s.registerFunction).Methods(http.MethodPost)
	r.HandleFunc("/functions/lookup", s.getFunctionMeta).Methods(http.MethodPost)
	r.HandleFunc("/functions/unregister", s.unregisterFunction).Methods(http.MethodPost)

	r.HandleFunc("/indexes", s.addIndex).Methods(http.MethodPost)
	r.HandleFunc("/indexes/{name}", s.getIndex).Methods(http.MethodGet)
	r.HandleFunc("/indexes/{name}", s.existIndex).Methods(http.MethodHead)
	r.HandleFunc("/indexes/{name}", s.delIndex).Methods(http.MethodDelete)

	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Debug("catalog request")
	s.router.ServeHTTP(w, r)
}

func statusOf(err error) int {
	switch {
	case sql.ErrTableNotFound.Is(err),
		sql.ErrFunctionNotFound.Is(err),
		sql.ErrIndexNotFound.Is(err):
		return http.StatusNotFound
	case sql.ErrTableAlreadyExists.Is(err),
		sql.ErrFunctionAlreadyExists.Is(err),
		sql.ErrIndexAlreadyExists.Is(err):
		return http.StatusConflict
	case sql.ErrUnknownType.Is(err),
		sql.ErrUnknownIndexMethod.Is(err),
		sql.ErrMalformedTableMeta.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.WithField("path", r.URL.Path).Errorf("catalog request failed: %s", err)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := wire.Marshal(v)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.log.Warnf("unable to write response: %s", err)
	}
}

func (s *Server) read(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	data, err := ioutil.ReadAll(r.Body)
	if err == nil {
		err = wire.Unmarshal(data, v)
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) getAllTableNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.catalog.GetAllTableNames()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, names)
}

func (s *Server) addTable(w http.ResponseWriter, r *http.Request) {
	var rec wire.Table
	if !s.read(w, r, &rec) {
		return
	}

	desc, err := rec.Desc()
	if err == nil {
		err = s.catalog.AddTable(desc)
	}

	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) getTableDesc(w http.ResponseWriter, r *http.Request) {
	desc, err := s.catalog.GetTableDesc(mux.Vars(r)["name"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := wire.NewTable(desc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, rec)
}

func (s *Server) existsTable(w http.ResponseWriter, r *http.Request) {
	ok, err := s.catalog.ExistsTable(mux.Vars(r)["name"])
	s.exists(w, r, ok, err)
}

func (s *Server) exists(w http.ResponseWriter, r *http.Request, ok bool, err error) {
	switch {
	case err != nil:
		s.fail(w, r, err)
	case ok:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) deleteTable(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteTable(mux.Vars(r)["name"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getFunctions(w http.ResponseWriter, r *http.Request) {
	fns, err := s.catalog.GetFunctions()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	recs := make([]*wire.Function, len(fns))
	for i, fn := range fns {
		recs[i] = wire.NewFunction(fn)
	}
	s.write(w, r, http.StatusOK, recs)
}

func (s *Server) registerFunction(w http.ResponseWriter, r *http.Request) {
	var rec wire.Function
	if !s.read(w, r, &rec) {
		return
	}

	desc, err := rec.Desc()
	if err == nil {
		err = s.catalog.RegisterFunction(desc)
	}

	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) readSignature(w http.ResponseWriter, r *http.Request) (string, []sql.Type, bool) {
	var sig wire.Signature
	if !s.read(w, r, &sig) {
		return "", nil, false
	}

	params, err := wire.ParseTypes(sig.Params)
	if err != nil {
		s.fail(w, r, err)
		return "", nil, false
	}
	return sig.Name, params, true
}

func (s *Server) getFunctionMeta(w http.ResponseWriter, r *http.Request) {
	name, params, ok := s.readSignature(w, r)
	if !ok {
		return
	}

	desc, err := s.catalog.GetFunctionMeta(name, params)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, wire.NewFunction(desc))
}

func (s *Server) unregisterFunction(w http.ResponseWriter, r *http.Request) {
	name, params, ok := s.readSignature(w, r)
	if !ok {
		return
	}

	if err := s.catalog.UnregisterFunction(name, params); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addIndex(w http.ResponseWriter, r *http.Request) {
	var rec wire.Index
	if !s.read(w, r, &rec) {
		return
	}

	desc, err := rec.Desc()
	if err == nil {
		err = s.catalog.AddIndex(desc)
	}

	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) getIndex(w http.ResponseWriter, r *http.Request) {
	desc, err := s.catalog.GetIndex(mux.Vars(r)["name"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, wire.NewIndex(desc))
}

func (s *Server) existIndex(w http.ResponseWriter, r *http.Request) {
	ok, err := s.catalog.ExistIndex(mux.Vars(r)["name"])
	s.exists(w, r, ok, err)
}

func (s *Server) delIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DelIndex(mux.Vars(r)["name"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
