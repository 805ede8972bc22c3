package imports

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
	apperrors "github.com/killallgit/transcript-search/pkg/errors"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

// FormField is the multipart field carrying uploaded files
const FormField = "files"

// Post handles transcript uploads
// @Summary      Import transcript files
// @Description  Extracts podcast episodes from uploaded JSON, plist/XML, text, subtitle or ZIP files and adds them to the searchable corpus. Files that cannot be processed are reported in errors without failing the request.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        files formData file true "One or more transcript files"
// @Success      200 {object} types.ImportResponse "Import result"
// @Failure      400 {object} types.ErrorResponse "No files uploaded"
// @Failure      409 {object} types.ErrorResponse "Another import is running"
// @Failure      413 {object} types.ErrorResponse "Upload too large"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/imports [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.MaxUploadSize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, deps.MaxUploadSize)
		}

		form, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				types.SendError(c, apperrors.PayloadTooLargeError(humanize.IBytes(uint64(tooLarge.Limit))))
				return
			}
			types.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid multipart upload"))
			return
		}

		headers := form.File[FormField]
		if len(headers) == 0 {
			types.SendError(c, apperrors.New(apperrors.ErrCodeNoFiles, "No files were uploaded").
				WithDetail("field", FormField))
			return
		}

		files := make([]transcript.File, len(headers))
		for i, fh := range headers {
			files[i] = fromUpload(fh)
		}

		result, err := deps.Corpus.Import(c.Request.Context(), files)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.ImportResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: result.Message(),
			},
			Outcome:  string(result.Outcome()),
			Episodes: result.Episodes,
			Errors:   result.Errors,
			Count:    len(result.Episodes),
		})
	}
}

func fromUpload(fh *multipart.FileHeader) transcript.File {
	return transcript.File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
