package httpadapter

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

type emailRequest struct {
	Content    string `json:"content"`
	Subject    string `json:"subject"`
	Sender     string `json:"sender"`
	ProjectID  string `json:"project_id"`
	CustomerID string `json:"customer_id"`
}

type transcriptRequest struct {
	Content      string   `json:"content"`
	MeetingDate  string   `json:"meeting_date"`
	Participants []string `json:"participants"`
	ProjectID    string   `json:"project_id"`
	CustomerID   string   `json:"customer_id"`
}

func (rt *Router) submitEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	comm, err := rt.ingestor.Submit(r.Context(), domain.NewCommunication{
		Type:       domain.TypeEmail,
		Subject:    req.Subject,
		Sender:     req.Sender,
		ProjectID:  req.ProjectID,
		CustomerID: req.CustomerID,
	}, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, comm)
}

func (rt *Router) submitTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	comm, err := rt.ingestor.Submit(r.Context(), domain.NewCommunication{
		Type:         domain.TypeTranscript,
		MeetingDate:  req.MeetingDate,
		Participants: req.Participants,
		ProjectID:    req.ProjectID,
		CustomerID:   req.CustomerID,
	}, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, comm)
}

func (rt *Router) uploadCommunication(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.APIMaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.APIMaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds size limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	comm, err := rt.ingestor.Upload(r.Context(), domain.NewCommunication{
		Type:       domain.CommunicationType(r.FormValue("type")),
		Subject:    r.FormValue("subject"),
		Sender:     r.FormValue("sender"),
		ProjectID:  r.FormValue("project_id"),
		CustomerID: r.FormValue("customer_id"),
		Filename:   fileHeader.Filename,
		MimeType:   fileHeader.Header.Get("Content-Type"),
	}, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, comm)
}

func (rt *Router) listCommunications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := rt.reader.List(r.Context(), domain.CommunicationFilter{
		Type:       domain.CommunicationType(strings.TrimSpace(query.Get("type"))),
		ProjectID:  strings.TrimSpace(query.Get("project_id")),
		CustomerID: strings.TrimSpace(query.Get("customer_id")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"communications": items})
}

func (rt *Router) getCommunication(w http.ResponseWriter, r *http.Request) {
	comm, err := rt.reader.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comm)
}

func (rt *Router) listTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.TaskFilter{
		CommunicationID: strings.TrimSpace(query.Get("communication_id")),
	}
	if raw := query.Get("high_priority"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "high_priority must be a boolean"})
			return
		}
		filter.HighPriorityOnly = value
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
			return
		}
		filter.Limit = limit
	}

	tasks, err := rt.reader.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
