package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
)

// errUploadAborted is the pipe error used when an upload is discarded.
var errUploadAborted = errors.New("telegram: upload aborted")

// Upload describes one multipart file upload.
type Upload struct {
	ChatID    int64
	Method    string // sendDocument, sendAudio, sendVideo
	Field     string // document, audio, video
	FileName  string
	Caption   string
	MIMEType  string
	Thumbnail []byte
}

type uploadResult struct {
	msg *Message
	err error
}

// UploadStream is an in-flight multipart upload. File bytes written to it
// flow straight into the HTTP request body through an io.Pipe; nothing is
// buffered beyond the chunk being written.
type UploadStream struct {
	pw   *io.PipeWriter
	mw   *multipart.Writer
	part io.Writer
	done chan uploadResult
}

// StartUpload begins a streaming upload. The HTTP request is issued
// immediately; the caller feeds the payload with WriteChunk and completes
// the request with Finalize. The Bot API only answers once the full body
// has been sent, so Finalize is where upload errors surface.
func (c *Client) StartUpload(ctx context.Context, up Upload) (*UploadStream, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(up.Method), pr)
	if err != nil {
		_ = pw.Close()
		return nil, fmt.Errorf("telegram: create %s request: %w", up.Method, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	u := &UploadStream{
		pw:   pw,
		mw:   mw,
		done: make(chan uploadResult, 1),
	}

	go func() {
		resp, err := c.uploads.Do(req)
		if err != nil {
			// Unblock a writer stuck on the pipe.
			pr.CloseWithError(err)
			u.done <- uploadResult{err: fmt.Errorf("telegram: %s request failed: %w", up.Method, err)}
			return
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if err != nil {
			u.done <- uploadResult{err: fmt.Errorf("telegram: read %s response: %w", up.Method, err)}
			return
		}
		msg, err := decodeAPIResponse[Message](body, up.Method)
		u.done <- uploadResult{msg: msg, err: err}
	}()

	if err := u.writeFields(up); err != nil {
		u.Abort()
		return nil, u.takeResult(err)
	}
	return u, nil
}

// writeFields sends the form fields ahead of the file part and opens the
// payload part.
func (u *UploadStream) writeFields(up Upload) error {
	if err := u.mw.WriteField("chat_id", strconv.FormatInt(up.ChatID, 10)); err != nil {
		return err
	}
	if up.Caption != "" {
		if err := u.mw.WriteField("caption", up.Caption); err != nil {
			return err
		}
	}
	if len(up.Thumbnail) > 0 {
		tp, err := u.mw.CreateFormFile("thumbnail", "thumbnail.jpg")
		if err != nil {
			return err
		}
		if _, err := tp.Write(up.Thumbnail); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, up.Field, up.FileName))
	if up.MIMEType != "" {
		h.Set("Content-Type", up.MIMEType)
	} else {
		h.Set("Content-Type", "application/octet-stream")
	}

	part, err := u.mw.CreatePart(h)
	if err != nil {
		return err
	}
	u.part = part
	return nil
}

// WriteChunk streams one chunk of the payload into the request body.
func (u *UploadStream) WriteChunk(p []byte) error {
	if _, err := u.part.Write(p); err != nil {
		return u.takeResult(err)
	}
	return nil
}

// Finalize closes the multipart body and waits for the Bot API response.
func (u *UploadStream) Finalize(ctx context.Context) error {
	if err := u.mw.Close(); err != nil {
		return u.takeResult(err)
	}
	if err := u.pw.Close(); err != nil {
		return u.takeResult(err)
	}

	select {
	case <-ctx.Done():
		u.pw.CloseWithError(ctx.Err())
		return ctx.Err()
	case res := <-u.done:
		return res.err
	}
}

// Abort discards the upload. The in-flight request fails and no message is
// posted to the chat.
func (u *UploadStream) Abort() {
	u.pw.CloseWithError(errUploadAborted)
}

// takeResult prefers the HTTP goroutine's error over a pipe-write error,
// since the former carries the Bot API diagnostics.
func (u *UploadStream) takeResult(fallback error) error {
	select {
	case res := <-u.done:
		if res.err != nil {
			return res.err
		}
	default:
	}
	return fallback
}

// uploadMethod maps an upload kind string to its Bot API method and file
// field name.
func uploadMethod(kind string) (method, field string) {
	switch kind {
	case "audio":
		return "sendAudio", "audio"
	case "video":
		return "sendVideo", "video"
	default:
		return "sendDocument", "document"
	}
}
