package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitewise-app/bitewise/internal/app/achievement"
	"github.com/bitewise-app/bitewise/internal/app/nutrition"
	"github.com/bitewise-app/bitewise/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

type createUserRequest struct {
	UserID           string `json:"user_id"`
	DisplayName      string `json:"display_name"`
	DailyCalorieGoal int    `json:"daily_calorie_goal"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	p, err := s.nutrition.CreateProfile(req.UserID, req.DisplayName, req.DailyCalorieGoal)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	p, err := s.nutrition.Profile(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ─── Meals ──────────────────────────────────────────────────────────────────

type logMealRequest struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Calories int     `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
	HasPhoto bool    `json:"has_photo,omitempty"`
	LoggedAt string  `json:"logged_at,omitempty"` // RFC 3339, defaults to now
}

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	var req logMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var at time.Time
	if req.LoggedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.LoggedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "logged_at must be RFC 3339")
			return
		}
		at = parsed.UTC()
	}

	meal, err := s.nutrition.LogMeal(r.Context(), nutrition.LogMealRequest{
		UserID:   req.UserID,
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		HasPhoto: req.HasPhoto,
		At:       at,
	})
	if err != nil {
		// The meal may have been stored even when evaluation failed.
		if meal != nil {
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"meal":    meal,
				"warning": err.Error(),
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"meal": meal})
}

func (s *Server) handleCompleteDay(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	day := chi.URLParam(r, "day")
	if _, err := time.Parse(domain.DayKey, day); err != nil {
		writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}
	totals, err := s.nutrition.CompleteDay(r.Context(), userID, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().UTC().Format(domain.DayKey)
	} else if _, err := time.Parse(domain.DayKey, day); err != nil {
		writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}
	summary, err := s.nutrition.Summary(chi.URLParam(r, "id"), day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ─── Achievements ───────────────────────────────────────────────────────────

type earnedAchievement struct {
	Definition domain.AchievementDefinition `json:"definition"`
}

type trackedAchievement struct {
	Definition domain.AchievementDefinition `json:"definition"`
	Progress   domain.AchievementProgress   `json:"progress"`
}

type userAchievementsResponse struct {
	UserID      string               `json:"user_id"`
	TotalPoints int                  `json:"total_points"`
	Earned      []earnedAchievement  `json:"earned"`
	InProgress  []trackedAchievement `json:"in_progress"`
}

func (s *Server) handleUserAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := s.nutrition.Profile(userID); err != nil {
		writeDomainError(w, err)
		return
	}
	ua, err := s.store.Get(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := userAchievementsResponse{
		UserID:     userID,
		Earned:     []earnedAchievement{},
		InProgress: []trackedAchievement{},
	}
	if ua == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.TotalPoints = ua.TotalPoints

	defs, err := s.store.ListDefinitions()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	byID := make(map[string]domain.AchievementDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}

	for _, id := range ua.Earned {
		if def, ok := byID[id]; ok {
			resp.Earned = append(resp.Earned, earnedAchievement{Definition: def})
		}
	}
	for id, tracker := range ua.Trackers {
		if tracker.Completed || ua.HasEarned(id) {
			continue
		}
		if def, ok := byID[id]; ok {
			resp.InProgress = append(resp.InProgress, trackedAchievement{
				Definition: def,
				Progress:   tracker,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListAchievements returns the catalog. Hidden definitions are
// omitted unless ?all=true.
func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	defs, err := s.store.ListDefinitions()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	includeHidden := r.URL.Query().Get("all") == "true"
	visible := make([]domain.AchievementDefinition, 0, len(defs))
	for _, def := range defs {
		if def.Hidden && !includeHidden {
			continue
		}
		visible = append(visible, def)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": visible})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	created, err := achievement.SeedDefaults(s.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifs, err := s.store.ListPendingNotifications(chi.URLParam(r, "id"), 50)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if notifs == nil {
		notifs = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifs})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "notification id must be an integer")
		return
	}
	if err := s.store.MarkNotificationShown(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
