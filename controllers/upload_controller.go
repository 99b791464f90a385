package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dataanalyzer-ai/backend/analysis"
	"dataanalyzer-ai/backend/config"
	"dataanalyzer-ai/backend/database"
	"dataanalyzer-ai/backend/loader"
	"dataanalyzer-ai/backend/middlewares"
	"dataanalyzer-ai/backend/models"
	"dataanalyzer-ai/backend/session"
	"dataanalyzer-ai/backend/utils"
)

const (
	sampleTextColumns = 3
	samplesPerColumn  = 5
	textOnlyMessage   = "PDF uploaded (text-only)"
)

// Upload accepts multipart field "file", parses it and makes it the current
// table of the caller's session.
func Upload(cfg config.Config, store *session.Store) gin.HandlerFunc {
	profile := analysis.ProfileByName(cfg.Profile)
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !profile.Supports(ext) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Please upload one of: " + strings.Join(profile.Extensions, ", ")})
			return
		}
		if cfg.MaxUploadBytes > 0 && header.Size > cfg.MaxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File too large (limit %d MB)", cfg.MaxUploadBytes>>20)})
			return
		}

		buf, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
			return
		}

		res, err := loader.Load(header.Filename, buf)
		if err != nil {
			log.Printf("[upload] %s (%d bytes): %v", header.Filename, len(buf), err)
			if errors.Is(err, loader.ErrEmptyOrUnreadable) || errors.Is(err, loader.ErrUnsupportedFormat) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing file: " + err.Error()})
			return
		}

		if res.Table == nil {
			// nothing analyzable: the session keeps whatever table it had
			sid := middlewares.SessionID(c)
			recordUpload(sid, session.Metadata{Filename: header.Filename, Columns: []string{}, UploadedAt: time.Now()}, true)
			log.Printf("[upload] %s: text-only pdf (%d preview chars, session %s unchanged)", header.Filename, len(res.TextPreview), sid)
			c.JSON(http.StatusOK, models.TextPreviewResponse{
				Message:      textOnlyMessage,
				Rows:         0,
				Columns:      []string{},
				SampleAreas:  []string{},
				TextPreview:  res.TextPreview,
				Note:         loader.PDFTextNote,
				SessionToken: c.GetString(middlewares.TokenKey),
			})
			return
		}

		sid, ids := uploadSession(c)
		token, err := utils.GenerateSessionToken(cfg.SessionSecret, sid, cfg.SessionTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing file: " + err.Error()})
			return
		}
		c.Header(middlewares.SessionHeader, token)

		t := res.Table
		meta := session.Metadata{
			Filename:   header.Filename,
			Rows:       t.NumRows(),
			Columns:    t.ColumnNames(),
			Kinds:      t.Kinds(),
			UploadedAt: time.Now(),
		}
		store.Put(session.Entry{Table: t, Meta: meta}, ids...)
		recordUpload(sid, meta, false)
		log.Printf("[upload] %s: %d rows, %d columns (session %s)", header.Filename, t.NumRows(), t.NumCols(), sid)

		c.JSON(http.StatusOK, models.UploadResponse{
			Message:     fmt.Sprintf("✅ %s uploaded successfully!", header.Filename),
			Rows:        t.NumRows(),
			Columns:     t.ColumnNames(),
			SampleAreas: sampleValues(t),
			DataTypes: models.DataTypes{
				Numeric: t.ColumnsOfKind(models.KindNumeric),
				Text:    t.ColumnsOfKind(models.KindText),
				Dates:   t.ColumnsOfKind(models.KindDate),
			},
			SessionToken: token,
		})
	}
}

// uploadSession keeps the caller's session when a token was sent. Otherwise
// it mints a new id and also updates the shared default session.
func uploadSession(c *gin.Context) (string, []string) {
	if c.GetBool(middlewares.HasTokenKey) {
		sid := middlewares.SessionID(c)
		return sid, []string{sid}
	}
	sid := uuid.NewString()
	return sid, []string{sid, session.DefaultID}
}

// sampleValues lists up to five distinct values from each of the first
// three text columns.
func sampleValues(t *models.Table) []string {
	out := []string{}
	text := t.ColumnsOfKind(models.KindText)
	if len(text) > sampleTextColumns {
		text = text[:sampleTextColumns]
	}
	for _, col := range text {
		out = append(out, analysis.Suggestions(t, col, samplesPerColumn)...)
	}
	return out
}

func recordUpload(sid string, meta session.Metadata, textOnly bool) {
	if !database.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.RecordUpload(ctx, sid, meta.Filename, meta.Rows, meta.Columns, meta.Kinds, textOnly); err != nil {
		log.Printf("[upload] history insert failed: %v", err)
	}
}
