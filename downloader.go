package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// fetchPDF downloads a PDF into memory:
// - if the URL answers with PDF bytes (content type, .pdf suffix, or
//   octet-stream) they are returned directly;
// - if it answers with HTML, the page is scanned for a .pdf / "download"
//   link and that link is fetched instead (one hop).
// Reads are capped at maxBytes+1 so an oversized remote file is caught
// by the validation gate without buffering the whole thing.
func fetchPDF(u string, maxBytes int64) ([]byte, error) {
	return fetchPDFDepth(u, maxBytes, 2)
}

func fetchPDFDepth(u string, maxBytes int64, depth int) ([]byte, error) {
	if depth < 0 {
		return nil, fmt.Errorf("no direct PDF link found at %s", u)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "PDFMerger/1.0 (+https://example.local)")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("http %d fetching %s", resp.StatusCode, u)
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "pdf") || strings.HasSuffix(strings.ToLower(u), ".pdf") || ct == "application/octet-stream" {
		return io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	}

	if strings.Contains(ct, "text/html") {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		pdfURL := findPDFLinkInHTML(string(body), u)
		if pdfURL == "" {
			return nil, fmt.Errorf("no direct PDF link found in HTML page: %s", u)
		}
		return fetchPDFDepth(pdfURL, maxBytes, depth-1)
	}

	return nil, fmt.Errorf("unsupported content-type %s for %s", ct, u)
}

// findPDFLinkInHTML looks for <a href="...pdf"> or an anchor whose text
// mentions "download"/"pdf", preferring hrefs that end in .pdf.
func findPDFLinkInHTML(html, base string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var candidates []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		txt := strings.ToLower(strings.TrimSpace(a.Text()))
		abs := mustAbsURL(base, href)
		l := strings.ToLower(abs)
		switch {
		case strings.HasSuffix(l, ".pdf"):
			candidates = append(candidates, abs)
		case strings.Contains(txt, "download") || strings.Contains(txt, "pdf"):
			candidates = append(candidates, abs)
		}
	})

	for _, c := range candidates {
		if strings.HasSuffix(strings.ToLower(c), ".pdf") {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

func mustAbsURL(baseStr, href string) string {
	bu, err := url.Parse(baseStr)
	if err != nil {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}
