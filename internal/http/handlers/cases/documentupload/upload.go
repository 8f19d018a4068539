// Package documentupload реализует HTTP-обработчик загрузки документа дела.
//
// Файл сохраняется в локальный каталог как есть, содержимое не разбирается.
// К делу добавляется запись CaseDocument с путём к файлу.
package documentupload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/cases"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

const maxUploadSize = 25 << 20 // 25 MiB

// Handler обрабатывает HTTP-запросы загрузки документов.
type Handler struct {
	log       *slog.Logger
	service   Service
	uploadDir string
}

// Service описывает интерфейс прикрепления документа к делу.
type Service interface {
	AttachDocument(ctx context.Context, advocateUID string, doc models.CaseDocument) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, uploadDir string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		uploadDir: uploadDir,
	}
}

// ServeHTTP godoc
// @Summary Загрузить документ дела
// @Description Принимает multipart-файл, сохраняет его локально и прикрепляет запись к делу.
// @Tags Cases
// @Accept  multipart/form-data
// @Produce  json
// @Param caseId formData string true "Идентификатор дела"
// @Param file formData file true "Файл документа"
// @Success 200 {object} response.Response "Идентификатор записи документа"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 403 {object} response.ErrorResponse "Чужое дело"
// @Failure 404 {object} response.ErrorResponse "Дело не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/upload-document [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.documentupload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	caseID := r.FormValue("caseId")
	if caseID == "" {
		log.Error("missing case id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing case id"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("missing file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing file"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		log.Error("failed to prepare upload dir", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not store file"))
		return
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	storedPath := filepath.Join(h.uploadDir, storedName)
	dst, err := os.Create(storedPath)
	if err != nil {
		log.Error("failed to create file", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not store file"))
		return
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, file); err != nil {
		log.Error("failed to write file", sl.Err(err))
		_ = os.Remove(storedPath)
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not store file"))
		return
	}

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	id, err := h.service.AttachDocument(r.Context(), advocateUID, models.CaseDocument{
		CaseID:   caseID,
		URL:      storedPath,
		FileName: header.Filename,
		Type:     header.Header.Get("Content-Type"),
	})
	if err != nil {
		_ = os.Remove(storedPath)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("case not found"))
		case errors.Is(err, cases.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to attach document", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not attach document"))
		}
		return
	}

	log.Info("document uploaded",
		slog.String("case_id", caseID),
		slog.String("file", header.Filename))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":       id,
		"fileName": header.Filename,
	}))
}
