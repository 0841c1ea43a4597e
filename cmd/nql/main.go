// Command nql analyzes NQL statements against a catalog and manages
// catalogs stored in bolt files.
package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nql "github.com/src-d/go-nql"
	"github.com/src-d/go-nql/boltdb"
	"github.com/src-d/go-nql/remote"
	"github.com/src-d/go-nql/sql"
	"github.com/urfave/cli"
)

var version = "dev"

var (
	catalogFlag = cli.StringFlag{
		Name:  "catalog, c",
		Usage: "bolt file holding the catalog",
	}
	remoteFlag = cli.StringFlag{
		Name:  "remote, r",
		Usage: "URL of a catalog served by `nql serve`",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML configuration file",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "nql"
	app.Usage = "analyze NQL statements against a catalog"
	app.Version = version
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	app.Commands = []cli.Command{
		{
			Name:      "analyze",
			Usage:     "Analyze the given queries and print their bound form",
			ArgsUsage: "QUERY...",
			Flags:     []cli.Flag{catalogFlag, remoteFlag, configFlag},
			Action:    analyzeCommand,
		},
		{
			Name:      "load",
			Usage:     "Add the tables, functions and indexes of a YAML fixture to a catalog",
			ArgsUsage: "FIXTURE.yaml",
			Flags:     []cli.Flag{catalogFlag},
			Action:    loadCommand,
		},
		{
			Name:  "serve",
			Usage: "Serve a catalog over HTTP",
			Flags: []cli.Flag{
				catalogFlag,
				configFlag,
				cli.StringFlag{
					Name:  "addr",
					Value: ":7777",
					Usage: "address to listen on",
				},
			},
			Action: serveCommand,
		},
		{
			Name:   "tables",
			Usage:  "List the tables of a catalog and their columns",
			Flags:  []cli.Flag{catalogFlag, remoteFlag},
			Action: tablesCommand,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) error {
	return cli.NewExitError(red(fmt.Sprintf(format, args...)), 1)
}

func readConfig(c *cli.Context) (nql.Config, error) {
	path := c.String("config")
	if path == "" {
		return nql.DefaultConfig(), nil
	}
	return nql.ReadConfigFile(path)
}

// openCatalog opens the catalog named by the flags. The returned function
// releases it.
func openCatalog(c *cli.Context, allowRemote bool) (sql.Catalog, func(), error) {
	path, url := c.String("catalog"), c.String("remote")
	switch {
	case path != "" && url != "":
		return nil, nil, fail("--catalog and --remote are mutually exclusive")
	case url != "" && allowRemote:
		return remote.NewClient(url), func() {}, nil
	case path != "":
		cat, err := boltdb.Open(path, 0600)
		if err != nil {
			return nil, nil, fail("unable to open catalog %s: %s", path, err)
		}
		return cat, func() { _ = cat.Close() }, nil
	case allowRemote:
		return nil, nil, fail("one of --catalog or --remote is required")
	default:
		return nil, nil, fail("--catalog is required")
	}
}

func analyzeCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fail("no query given")
	}

	config, err := readConfig(c)
	if err != nil {
		return fail("%s", err)
	}

	logger, err := nql.NewLogger(config.Log, c.App.ErrWriter)
	if err != nil {
		return fail("%s", err)
	}

	cat, release, err := openCatalog(c, true)
	if err != nil {
		return err
	}
	defer release()

	e, err := nql.NewFromConfig(cat, config, logger, nil)
	if err != nil {
		return fail("%s", err)
	}

	var failed int
	for _, q := range c.Args() {
		stmt, err := e.Analyze(context.Background(), q)
		if err != nil {
			failed++
			fmt.Fprintf(c.App.ErrWriter, "%s %s\n", red("error:"), err)
			continue
		}
		fmt.Fprintln(c.App.Writer, stmt.String())
	}

	if failed > 0 {
		return fail("%d of %d queries are invalid", failed, c.NArg())
	}
	return nil
}

func loadCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fail("expecting exactly one fixture file")
	}

	data, err := ioutil.ReadFile(c.Args().First())
	if err != nil {
		return fail("%s", err)
	}

	cat, release, err := openCatalog(c, false)
	if err != nil {
		return err
	}
	defer release()

	n, err := loadFixture(cat, data)
	if err != nil {
		return fail("%s (loaded %s before the failure)", err, n)
	}

	fmt.Fprintln(c.App.Writer, green("loaded "+n.String()))
	return nil
}

func tablesCommand(c *cli.Context) error {
	cat, release, err := openCatalog(c, true)
	if err != nil {
		return err
	}
	defer release()

	names, err := cat.GetAllTableNames()
	if err != nil {
		return fail("%s", err)
	}

	for _, name := range names {
		desc, err := cat.GetTableDesc(name)
		if err != nil {
			return fail("%s", err)
		}

		fmt.Fprintf(c.App.Writer, "%s %s\n", cyan(desc.Name), desc.Meta)
		for _, col := range desc.Schema {
			null := ""
			if !col.Nullable {
				null = " NOT NULL"
			}
			fmt.Fprintf(c.App.Writer, "  %s %s%s\n", col.Name, col.Type, null)
		}
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	config, err := readConfig(c)
	if err != nil {
		return fail("%s", err)
	}

	logger, err := nql.NewLogger(config.Log, c.App.ErrWriter)
	if err != nil {
		return fail("%s", err)
	}

	cat, release, err := openCatalog(c, false)
	if err != nil {
		return err
	}
	defer release()

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix("/").Handler(remote.NewServer(cat, logger))

	srv := &http.Server{Addr: c.String("addr"), Handler: router}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("unable to shut down the server: %s", err)
		}
	}()

	logger.WithField("addr", srv.Addr).Info("serving catalog")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fail("%s", err)
	}

	<-done
	logger.Info("server stopped")
	return nil
}
