package wstests

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/webservtools/webserv-contract-tests/client"
	"github.com/webservtools/webserv-contract-tests/config"
)

func uploadSuite() suiteDef {
	return suiteDef{
		name:     "upload",
		teardown: uploadCleanStore,
		tests: []testDef{
			{"test_upload_roundtrip", uploadRoundtrip},
			{"test_upload_then_delete", uploadThenDelete},
			{"test_delete_twice", uploadDeleteTwice},
			{"test_upload_multipart", uploadMultipart},
			{"test_upload_binary_body", uploadBinaryBody},
		},
	}
}

// uploadCleanStore empties the upload store after the suite so repeated runs
// start from the same state. The .gitkeep marker stays.
func uploadCleanStore(t *T) {
	entries, err := os.ReadDir(config.UploadsDir)
	if err != nil {
		t.Debug("reading upload store: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.Name() == ".gitkeep" {
			continue
		}
		_ = os.Remove(filepath.Join(config.UploadsDir, entry.Name()))
	}
}

func uploadName() string {
	return "upload-" + uuid.NewString() + ".txt"
}

func uploadRoundtrip(t *T) {
	name := uploadName()
	content := "uploaded content " + name

	res := t.Send("POST", "/upload/"+name, client.RequestOpts{
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte(content),
	})
	t.RequireTransportOK(res)
	t.AssertInRange(res.StatusCode, 200, 201, "upload should be accepted")

	got := t.Get("/upload/" + name)
	t.AssertStatus(got, 200, "uploaded file should be retrievable")
	t.AssertEqual(got.BodyString(), content, "retrieved body should match the uploaded body")
}

func uploadThenDelete(t *T) {
	name := uploadName()
	res := t.Send("POST", "/upload/"+name, client.RequestOpts{Body: []byte("ephemeral")})
	t.RequireTransportOK(res)
	t.AssertInRange(res.StatusCode, 200, 201, "upload should be accepted")

	del := t.Send("DELETE", "/upload/"+name, client.RequestOpts{})
	t.RequireTransportOK(del)
	t.AssertInRange(del.StatusCode, 200, 204, "delete of an uploaded file should succeed")

	gone := t.Get("/upload/" + name)
	t.AssertStatus(gone, 404, "deleted file should no longer be served")
}

func uploadDeleteTwice(t *T) {
	name := uploadName()
	res := t.Send("POST", "/upload/"+name, client.RequestOpts{Body: []byte("once")})
	t.RequireTransportOK(res)

	first := t.Send("DELETE", "/upload/"+name, client.RequestOpts{})
	t.RequireTransportOK(first)
	t.AssertInRange(first.StatusCode, 200, 204, "first delete should succeed")

	second := t.Send("DELETE", "/upload/"+name, client.RequestOpts{})
	t.AssertStatus(second, 404, "second delete of the same file should yield 404")
}

func uploadMultipart(t *T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", uploadName())
	if err != nil {
		t.Errorf("building multipart body: %v", err)
		t.FailNow()
	}
	_, _ = part.Write([]byte("multipart payload"))
	_ = writer.Close()

	res := t.Send("POST", "/upload", client.RequestOpts{
		Headers: map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:    buf.Bytes(),
	})
	t.RequireTransportOK(res)
	t.AssertInRange(res.StatusCode, 200, 201, "multipart upload should be accepted")
}

func uploadBinaryBody(t *T) {
	name := uploadName()
	body := make([]byte, 256)
	for i := range body {
		body[i] = byte(i)
	}

	res := t.Send("POST", "/upload/"+name, client.RequestOpts{
		Headers: map[string]string{"Content-Type": "application/octet-stream"},
		Body:    body,
	})
	t.RequireTransportOK(res)
	t.AssertInRange(res.StatusCode, 200, 201, "binary upload should be accepted")

	got := t.Get("/upload/" + name)
	t.AssertStatus(got, 200, "binary file should be retrievable")
	t.AssertTrue(bytes.Equal(got.Body, body), "binary body should round-trip byte for byte")
}
