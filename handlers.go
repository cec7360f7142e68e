package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bradhe/stopwatch"
	"go.uber.org/zap"
)

// multipart parts above this threshold spill to temp files, which are
// removed again when the handler returns
const multipartMemory = 32 << 20

func handleMerge(maxBytes int64, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
			return
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "malformed multipart request")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		headers := r.MultipartForm.File[fileField]

		// gate first: declared metadata of every file, before any bytes move
		metas := make([]FileMeta, len(headers))
		for i, fh := range headers {
			metas[i] = FileMeta{
				Name:        fh.Filename,
				Size:        fh.Size,
				ContentType: fh.Header.Get("Content-Type"),
			}
		}
		if err := validateInputs(metas, maxBytes); err != nil {
			logger.Warn("merge request rejected", zap.Error(err))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		inputs := make([]NamedBuffer, len(headers))
		for i, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				logger.Error("cannot open upload", zap.String("file", fh.Filename), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "cannot read upload")
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				logger.Error("cannot read upload", zap.String("file", fh.Filename), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "cannot read upload")
				return
			}
			inputs[i] = NamedBuffer{Name: fh.Filename, Data: data}
		}

		watch := stopwatch.Start()
		res, err := mergePDFs(inputs)
		watch.Stop()
		if err != nil {
			// corrupt input is the client's problem; everything else is ours
			status := http.StatusInternalServerError
			if errors.Is(err, ErrParse) || errors.Is(err, ErrNoInput) {
				status = http.StatusBadRequest
			}
			logger.Error("merge failed", zap.Int("files", len(inputs)), zap.Error(err))
			writeError(w, status, err.Error())
			return
		}

		outName := outputName(r.FormValue(nameField))
		logger.Info("merged",
			zap.Int("files", len(inputs)),
			zap.Int("pages", res.Pages),
			zap.Int("bytes", len(res.Data)),
			zap.Any("elapsed_ms", watch.Milliseconds()))

		w.Header().Set("Content-Type", pdfMediaType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+outName+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		_, _ = w.Write(res.Data)
	}
}

// outputName turns the (possibly absent) requested name into a safe
// download filename ending in .pdf.
func outputName(requested string) string {
	s := strings.TrimSpace(requested)
	if s == "" {
		return defaultOutName
	}
	return sanitizeNoExt(s) + ".pdf"
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
