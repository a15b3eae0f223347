// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/textproto"
	"strconv"
)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func (p *Panel) changedLocked() {
	for c := range p.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

func (p *Panel) snapshot(f ImageFormat) ([]byte, error) {
	return encode(p.Image(), f)
}

// ServeHTTP handles HTTP GET requests with an image of the glass.
//
// The image is PNG unless "?format=jpeg" is given. With "?stream=1" the
// response is a never ending multipart/x-mixed-replace stream (MJPEG style)
// updated after every transmission, until the client leaves or Halt is
// called.
func (p *Panel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("Closing request body failed: %v", err)
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	format := DefaultFormat
	if v := q.Get("format"); v != "" {
		var err error
		if format, err = ImageFormatFromString(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if stream, _ := strconv.ParseBool(q.Get("stream")); !stream {
		payload, err := p.snapshot(format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", format.mimeType())
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
		return
	}
	p.stream(w, r, format)
}

func (p *Panel) stream(w http.ResponseWriter, r *http.Request, format ImageFormat) {
	pw := makePartWriter(w)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	p.mu.Lock()
	p.clients[c] = struct{}{}
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.clients, c)
		p.mu.Unlock()
	}()

	partHeaders := make(textproto.MIMEHeader)
	partHeaders.Set("Content-Type", format.mimeType())
	partHeaders.Set("Content-Transfer-Encoding", "binary")
	for {
		payload, err := p.snapshot(format)
		if err != nil {
			return
		}
		// Errors silently terminate the request; there is no way to report
		// them within an image stream.
		if err := pw.writeFrame(partHeaders, payload); err != nil {
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// randomBoundary generates a MIME multipart boundary compatible with RFC 2046
// (section 5.1.1).
func randomBoundary() string {
	var buf [34]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

type partWriter struct {
	u        io.Writer
	boundary string
	started  bool
}

func makePartWriter(u io.Writer) partWriter {
	return partWriter{u: u, boundary: randomBoundary()}
}

// writeFrame sends one part and the boundary line closing it, so the client
// can show it right away. mime/multipart.Writer only closes a part when the
// next one starts.
func (w *partWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))
	var buf bytes.Buffer
	if !w.started {
		fmt.Fprintf(&buf, "--%s\r\n", w.boundary)
		w.started = true
	}
	for name := range header {
		for _, value := range header[name] {
			fmt.Fprintf(&buf, "%s: %s\r\n", name, value)
		}
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", w.boundary)
	_, err := buf.WriteTo(w.u)
	return err
}
