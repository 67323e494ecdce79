package explorer

import (
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/filemanager/filemanager/internal/fileops"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/server/fsservice"
	"github.com/filemanager/filemanager/internal/server/handlers/api"
	"github.com/gin-gonic/gin"
)

const indexOfTmpl = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Index of /{{.Path}}</title></head>
<body>
<h1>Index of /{{.Path}}</h1>
<table>
<tr><th>Name</th><th>Size</th><th>Modified</th></tr>
{{- if .HasUp}}
<tr><td><a href="/browse/{{.Parent}}">../</a></td><td></td><td></td></tr>
{{- end}}
{{- range .Entries}}
<tr>
{{- if .IsDirectory}}
<td><a href="/browse/{{.Path}}">{{.Name}}/</a></td><td>-</td>
{{- else}}
<td>{{.Name}}</td><td>{{humanizeSize .Size}}</td>
{{- end}}
<td>{{humanizeTime .ModifiedAt}}</td>
</tr>
{{- end}}
</table>
</body>
</html>
`

type ExplorerHandler struct {
	list     *fsservice.ListService
	tplIndex *template.Template
}

func New(list *fsservice.ListService) *ExplorerHandler {
	funcMap := template.FuncMap{
		"humanizeSize": func(size int64) string {
			return humanize.Bytes(uint64(size))
		},
		"humanizeTime": humanize.Time,
	}

	return &ExplorerHandler{
		list:     list,
		tplIndex: template.Must(template.New("index").Funcs(funcMap).Parse(indexOfTmpl)),
	}
}

// List returns the entries under ?path=, relative to the server root.
func (e *ExplorerHandler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		api.AbortWithError(c, http.StatusBadRequest, fsapi.CodeInvalidRequest, err)
		return
	}

	opts := fileops.ListOptions{
		Depth:        1,
		Include:      req.Include,
		Exclude:      req.Exclude,
		RegexPattern: req.Regex,
		ShowHidden:   req.Hidden,
	}
	if c.Query("depth") != "" {
		opts.Depth = req.Depth
	}

	entries, err := e.list.ListWithOptions(c.Request.Context(), req.Path, opts)
	if err != nil {
		api.AbortWithServiceError(c, err, fsapi.CodeInternalError)
		return
	}

	c.PureJSON(http.StatusOK, &ListResponse{
		Path:    strings.Trim(req.Path, "/"),
		Entries: entries,
	})
}

// Browse renders an HTML index of a directory under the root.
func (e *ExplorerHandler) Browse(c *gin.Context) {
	dir := strings.Trim(c.Param("filepath"), "/")

	entries, err := e.list.List(c.Request.Context(), dir)
	if err != nil {
		status, _ := api.StatusFor(err, fsapi.CodeInternalError)
		c.String(status, "%s: %s", http.StatusText(status), dir)
		return
	}

	parent := path.Dir(dir)
	if parent == "." {
		parent = ""
	}

	data := indexData{
		Path:    dir,
		Parent:  parent,
		HasUp:   dir != "",
		Entries: entries,
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := e.tplIndex.Execute(c.Writer, data); err != nil {
		api.AbortWithError(c, http.StatusInternalServerError, fsapi.CodeInternalError, fmt.Errorf("failed to execute template: %w", err))
	}
}
