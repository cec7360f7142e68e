package main

import (
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ---- flags ----
var (
	addrFlag   = flag.String("addr", defaultAddr, "http listen address (e.g. :8080)")
	outFlag    = flag.String("o", defaultOutName, "output file for a local merge")
	maxFlag    = flag.Int64("max-bytes", defaultMaxBytes, "per-file size limit in bytes")
	thumbsFlag = flag.String("thumbs", "", "directory to write first-page previews to (local merge only)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  pdf-merger [flags]                      start the merge server\n")
	fmt.Fprintf(os.Stderr, "  pdf-merger [flags] <pdf-or-url> ...     merge locally into -o\n")
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// positional args mean a local merge; otherwise serve
	if flag.NArg() > 0 {
		if err := runLocalMerge(flag.Args(), *outFlag, *thumbsFlag, *maxFlag); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	mux := http.NewServeMux()
	mux.Handle("/merge", handleMerge(*maxFlag, logger))

	logger.Info("pdf merger listening",
		zap.String("addr", *addrFlag),
		zap.Int64("max_bytes", *maxFlag))
	if err := http.ListenAndServe(*addrFlag, mux); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// runLocalMerge is the in-process merge path: same gate, same engine as
// the server, output written as a local file.
func runLocalMerge(args []string, out, thumbsDir string, maxBytes int64) error {
	var list FileList
	for _, arg := range args {
		name, data, err := loadInput(arg, maxBytes)
		if err != nil {
			return fmt.Errorf("loading %s: %w", arg, err)
		}
		list.Add(name, data)
	}

	if err := validateInputs(list.Metas(), maxBytes); err != nil {
		return err
	}
	res, err := mergePDFs(list.Buffers())
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return err
	}

	if thumbsDir != "" {
		writeThumbs(&list, thumbsDir)
	}

	fmt.Printf("Merged %d files (%d pages) into %s\n", list.Len(), res.Pages, out)
	return nil
}

// loadInput reads one positional argument: a local path or an http(s)
// URL. Returns the display name and the raw bytes.
func loadInput(arg string, maxBytes int64) (string, []byte, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		data, err := fetchPDF(arg, maxBytes)
		if err != nil {
			return "", nil, err
		}
		return urlBaseName(arg), data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(arg), data, nil
}

// urlBaseName names a downloaded buffer after the URL's last path
// element. The fetch only succeeds for PDF responses, so a missing
// .pdf suffix is added rather than letting the gate reject the name.
func urlBaseName(u string) string {
	name := "download.pdf"
	if pu, err := url.Parse(u); err == nil {
		if b := path.Base(pu.Path); b != "" && b != "/" && b != "." {
			name = b
		}
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// writeThumbs dumps whatever previews exist. Best effort, like the
// previews themselves.
func writeThumbs(list *FileList, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "thumbs:", err)
		return
	}
	for _, f := range list.Files() {
		if f.Preview == nil {
			continue
		}
		p := filepath.Join(dir, sanitizeNoExt(f.Name)+".png")
		if err := os.WriteFile(p, f.Preview, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "thumbs:", err)
		}
	}
}
