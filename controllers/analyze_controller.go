package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dataanalyzer-ai/backend/analysis"
	"dataanalyzer-ai/backend/config"
	"dataanalyzer-ai/backend/database"
	"dataanalyzer-ai/backend/middlewares"
	"dataanalyzer-ai/backend/models"
	"dataanalyzer-ai/backend/session"
)

const (
	maxTableRows   = 50
	maxSuggestions = 5
)

// Analyze filters the session's table by the query keywords, then returns the
// insight, chart series and the first rows of the filtered table.
func Analyze(cfg config.Config, store *session.Store, gen *analysis.Generator) gin.HandlerFunc {
	profile := analysis.ProfileByName(cfg.Profile)
	return func(c *gin.Context) {
		sid := middlewares.SessionID(c)
		entry, ok := store.Get(sid)
		if !ok || entry.Table == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a file first"})
			return
		}
		store.Touch(sid)

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			log.Printf("[analyze] bad request body: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: expected JSON like {\"query\": \"...\"}"})
			return
		}
		query := strings.TrimSpace(req.Query)
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
			return
		}

		defer func() {
			if p := recover(); p != nil {
				log.Printf("[analyze] panic (query=%q file=%s): %v", query, entry.Meta.Filename, p)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Server error: %v", p)})
			}
		}()

		t := entry.Table
		log.Printf("[analyze] query=%q data=%d rows, %d columns", query, t.NumRows(), t.NumCols())
		roles := profile.Roles(t.ColumnNames())
		filterCols := profile.FilterColumns(t, roles)
		res := analysis.Filter(t, filterCols, query)

		filtered := res.Rows
		if res.Empty() {
			if !cfg.AnalyzeAllOnMiss {
				noResults(c, sid, t, filterCols, query)
				return
			}
			log.Printf("[analyze] no match for %v; analyzing all %d rows", res.Tokens, t.NumRows())
			filtered = t
		} else if !res.Unfiltered {
			log.Printf("[analyze] filtered by %s=%q: %d rows", res.Column, res.Token, filtered.NumRows())
		}

		in := gen.Generate(c.Request.Context(), filtered, roles, query, profile)
		chart := profile.Chart(filtered, roles)
		table := filtered.Records(maxTableRows)

		meta := &models.AnalyzeMetadata{
			TotalRows:     filtered.NumRows(),
			ColumnsUsed:   filtered.ColumnNames(),
			Roles:         roles.Names(),
			InsightSource: in.Source,
		}
		if !res.Unfiltered && !res.Empty() {
			meta.Filter = &models.FilterInfo{Token: res.Token, Column: res.Column}
		}
		log.Printf("[analyze] returning %d chart points, %d table rows (%s)", len(chart), len(table), in.Source)

		rec := database.AnalysisRecord{
			SessionID:     sid,
			Query:         query,
			MatchedRows:   filtered.NumRows(),
			TotalRows:     t.NumRows(),
			InsightSource: in.Source,
			Summary:       in.Text,
		}
		if meta.Filter != nil {
			rec.FilterToken, rec.FilterColumn = &meta.Filter.Token, &meta.Filter.Column
		}
		recordAnalysis(rec)

		c.JSON(http.StatusOK, models.AnalyzeResponse{
			Summary:      in.Text,
			ChartData:    chart,
			TableData:    table,
			Metadata:     meta,
			SessionToken: c.GetString(middlewares.TokenKey),
		})
	}
}

func noResults(c *gin.Context, sid string, t *models.Table, filterCols []string, query string) {
	suggestions := []string{}
	if len(filterCols) > 0 {
		suggestions = analysis.Suggestions(t, filterCols[0], maxSuggestions)
	}
	summary := fmt.Sprintf("No matching records found for %q.", query)
	if len(suggestions) > 0 {
		summary += " Try one of: " + strings.Join(suggestions, ", ")
	}
	log.Printf("[analyze] no results (query=%q rows=%d columns=%v)", query, t.NumRows(), filterCols)
	recordAnalysis(database.AnalysisRecord{
		SessionID:     sid,
		Query:         query,
		TotalRows:     t.NumRows(),
		InsightSource: "none",
		Summary:       summary,
	})
	c.JSON(http.StatusOK, models.AnalyzeResponse{
		Summary:      summary,
		ChartData:    []models.ChartPoint{},
		TableData:    []map[string]any{},
		Suggestions:  suggestions,
		SessionToken: c.GetString(middlewares.TokenKey),
	})
}

func recordAnalysis(r database.AnalysisRecord) {
	if !database.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.RecordAnalysis(ctx, r); err != nil {
		log.Printf("[analyze] history insert failed: %v", err)
	}
}
