package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/event-comb/app/database"
	"github.com/lysyi3m/event-comb/app/datum"
	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
	"github.com/lysyi3m/event-comb/app/tasks"
)

func NewHandler(configCache *source.ConfigCache, sourceRepo database.SourceRepository,
	eventRepo database.EventRepository, engine *datum.Engine, processor event.ProcessorInterface,
	generator GeneratorInterface, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sourceRepo:  sourceRepo,
		eventRepo:   eventRepo,
		configCache: configCache,
		engine:      engine,
		processor:   processor,
		generator:   generator,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.eventRepo.GetEventStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_event_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": gin.H{
			"total":      stats.Total,
			"normalized": stats.Normalized,
			"unchanged":  stats.Unchanged,
			"empty":      stats.Empty,
		},
		"reference_year": h.engine.ReferenceYear(),
	})
}

func (h *Handler) GetEvents(c *gin.Context) {
	stored, ok := h.listEvents(c)
	if !ok {
		return
	}

	events := make([]EventResponse, 0, len(stored))
	for _, ev := range stored {
		events = append(events, EventResponse{
			Organisation: ev.Organisation,
			Title:        ev.Title,
			Datum:        ev.Datum,
			RawDatum:     ev.RawDatum,
			Start:        ev.StartDatum,
			End:          ev.EndDatum,
			Location:     ev.Location,
			Description:  ev.Description,
			Link:         ev.Link,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}

func (h *Handler) GetEventsCSV(c *gin.Context) {
	stored, ok := h.listEvents(c)
	if !ok {
		return
	}

	records := make([]event.Event, len(stored))
	for i, ev := range stored {
		records[i] = ev.Record()
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="events.csv"`)
	c.Header("X-Event-Count", strconv.Itoa(len(records)))
	c.Status(http.StatusOK)

	if err := event.WriteCSV(c.Writer, records); err != nil {
		slog.Error("CSV export error", "error", err)
	}
}

func (h *Handler) GetEventsRSS(c *gin.Context) {
	stored, ok := h.listEvents(c)
	if !ok {
		return
	}

	organisation := c.Query("organisation")
	rss, err := h.generator.Run(organisation, stored)
	if err != nil {
		slog.Error("RSS generation error", "organisation", organisation, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Event-Count", strconv.Itoa(len(stored)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) listEvents(c *gin.Context) ([]database.Event, bool) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return nil, false
		}
		limit = parsed
	}

	stored, err := h.eventRepo.ListEvents(c.Query("organisation"), limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	return stored, true
}

func (h *Handler) APINormalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusOK, h.normalize(req.NormalizeItem))
		return
	}

	if len(req.Items) > maxBatchItems {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Too many items",
			"limit": maxBatchItems,
		})
		return
	}

	results := make([]NormalizeResult, len(req.Items))
	normalizedCount := 0
	for i, item := range req.Items {
		results[i] = h.normalize(item)
		if results[i].Normalized {
			normalizedCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      results,
		"total":      len(results),
		"normalized": normalizedCount,
	})
}

func (h *Handler) normalize(item NormalizeItem) NormalizeResult {
	engine := h.engine
	if item.ReferenceYear > 0 {
		engine = engine.WithReferenceYear(item.ReferenceYear)
	}

	out := engine.Normalize(item.Datum, h.configCache.Hint(item.Organisation))
	result := NormalizeResult{
		Input:      item.Datum,
		Datum:      out,
		Normalized: out != item.Datum,
	}
	if result.Normalized {
		result.Start, result.End = event.Split(out)
	}
	return result
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]any, 0, len(configs))

	for _, sourceConfig := range configs {
		sourceInfo := map[string]any{
			"name":                sourceConfig.Name,
			"organisation":        sourceConfig.Organisation,
			"url":                 sourceConfig.URL,
			"enabled":             sourceConfig.Settings.Enabled,
			"max_items":           sourceConfig.Settings.MaxItems,
			"refresh_interval":    (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
			"extract_description": sourceConfig.Settings.ExtractDescription,
			"date_order":          sourceConfig.Settings.DateOrder,
			"timezone":            sourceConfig.Settings.Timezone,
		}

		if stored, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil {
			sourceInfo["last_fetched_at"] = stored.LastFetchedAt
			sourceInfo["next_fetch_at"] = stored.NextFetchAt
			sourceInfo["updated_at"] = stored.UpdatedAt
		}

		if eventCount, err := h.eventRepo.GetEventCount(sourceConfig.Name); err == nil {
			sourceInfo["event_count"] = eventCount
		}

		sources = append(sources, sourceInfo)
	}

	c.JSON(http.StatusOK, map[string]any{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIRenormalizeSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	if _, err := h.sourceRepo.GetSource(name); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Source not found in database"})
			return
		}
		slog.Error("Database error", "operation", "get_source", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	renormalizeTask := tasks.NewRenormalizeSourceTask(name, h.processor, h.eventRepo)
	if err := h.scheduler.EnqueueTask(renormalizeTask); err != nil {
		slog.Error("Error enqueueing renormalize task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue renormalize task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Renormalize task enqueued successfully",
		"source":  name,
		"task": gin.H{
			"id":   renormalizeTask.ID,
			"type": renormalizeTask.Type,
		},
	})
}
