package export

import (
	"bytes"
	"html/template"

	"github.com/san-kum/flo/internal/view"
)

// Stylesheet colors the view's classes. Legend swatches reuse the node
// category classes so both always match.
const Stylesheet = `.node { stroke: #fff; stroke-width: 1.5px; cursor: move; }
.synced { fill: #2ca02c; }
.not_synced { fill: #d62728; }
.link { stroke: #999; stroke-opacity: .6; }
.color_legend text { font: 12px sans-serif; fill: #333; }
`

// PageOptions controls the HTML page.
type PageOptions struct {
	Title string
	// Live wires the page to a status server's tick stream and drag endpoint.
	Live bool
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: sans-serif; }
{{.Stylesheet}}</style>
</head>
<body>
{{.SVG}}
{{if .Live}}<script>
(function () {
  var svg = document.querySelector("svg");
  var lines = svg.querySelectorAll("line.link");
  var circles = svg.querySelectorAll("circle.node");

  var source = new EventSource("events");
  source.addEventListener("tick", function (e) {
    var frame = JSON.parse(e.data);
    frame.lines.forEach(function (l, i) {
      lines[i].setAttribute("x1", l[0]);
      lines[i].setAttribute("y1", l[1]);
      lines[i].setAttribute("x2", l[2]);
      lines[i].setAttribute("y2", l[3]);
    });
    frame.nodes.forEach(function (n, i) {
      circles[i].setAttribute("cx", n[0]);
      circles[i].setAttribute("cy", n[1]);
    });
  });

  function post(i, phase, x, y) {
    fetch("nodes/" + i + "/drag", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({phase: phase, x: x, y: y})
    });
  }

  function point(e) {
    var p = svg.createSVGPoint();
    p.x = e.clientX; p.y = e.clientY;
    return p.matrixTransform(svg.getScreenCTM().inverse());
  }

  var dragging = -1;
  circles.forEach(function (c) {
    var i = +c.getAttribute("data-index");
    c.addEventListener("mouseover", function () { post(i, "over", 0, 0); });
    c.addEventListener("mouseout", function () { if (dragging !== i) post(i, "out", 0, 0); });
    c.addEventListener("mousedown", function (e) {
      dragging = i;
      var p = point(e);
      post(i, "start", p.x, p.y);
      e.preventDefault();
    });
  });
  window.addEventListener("mousemove", function (e) {
    if (dragging < 0) return;
    var p = point(e);
    post(dragging, "move", p.x, p.y);
  });
  window.addEventListener("mouseup", function (e) {
    if (dragging < 0) return;
    var p = point(e);
    post(dragging, "end", p.x, p.y);
    dragging = -1;
  });
})();
</script>{{end}}
</body>
</html>
`

var page = template.Must(template.New("status").Parse(pageTemplate))

// FrameToHTML renders a full status page around the frame's SVG.
func FrameToHTML(f view.Frame, opts PageOptions) (string, error) {
	if opts.Title == "" {
		opts.Title = "flo status"
	}
	var buf bytes.Buffer
	err := page.Execute(&buf, map[string]any{
		"Title":      opts.Title,
		"Stylesheet": template.CSS(Stylesheet),
		"SVG":        template.HTML(FrameToSVG(f)),
		"Live":       opts.Live,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
