package vizserver

// indexPage is the single-page front end. It lists the session's root
// variables and draws the selected structure with plain SVG; layout is
// a simple layered placement, good enough for the structure sizes the
// summary limits allow.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>dsviz</title>
<style>
body { font-family: monospace; margin: 1em; background: #1e1e1e; color: #ddd; }
h1 { font-size: 1.2em; }
#vars li { cursor: pointer; margin: 0.2em 0; }
#vars li:hover { color: #fff; text-decoration: underline; }
#summary { color: #8c8; margin: 0.6em 0; }
svg { background: #252525; border: 1px solid #444; }
.node rect, .node circle { fill: #2d4f67; stroke: #7fb4ca; }
.node text { fill: #eee; font-size: 12px; }
.edge { stroke: #7aa89f; fill: none; marker-end: url(#arrow); }
.edgelabel { fill: #938aa9; font-size: 10px; }
</style>
</head>
<body>
<h1>dsviz</h1>
<ul id="vars"></ul>
<div id="summary"></div>
<svg id="view" width="1200" height="600">
<defs><marker id="arrow" markerWidth="8" markerHeight="8" refX="7" refY="3" orient="auto">
<path d="M0,0 L7,3 L0,6" fill="#7aa89f"/></marker></defs>
<g id="scene"></g>
</svg>
<script>
const svgns = "http://www.w3.org/2000/svg";

async function loadVars() {
  const res = await fetch("/api/vars");
  const vars = await res.json();
  const ul = document.getElementById("vars");
  ul.innerHTML = "";
  for (const v of vars) {
    const li = document.createElement("li");
    li.textContent = v.name + " (" + v.type + "): " + v.summary;
    li.onclick = () => loadStructure(v.name);
    ul.appendChild(li);
  }
}

function layout(outline) {
  // Layered placement: BFS depth as column, order within layer as row.
  const depth = {}, children = {}, indeg = {};
  for (const n of outline.nodes) { depth[n.id] = 0; children[n.id] = []; indeg[n.id] = 0; }
  for (const e of outline.edges) { children[e.from].push(e.to); indeg[e.to]++; }
  const queue = outline.nodes.filter(n => indeg[n.id] === 0).map(n => n.id);
  const seen = new Set(queue);
  while (queue.length) {
    const id = queue.shift();
    for (const c of children[id]) {
      if (seen.has(c)) continue;
      seen.add(c);
      depth[c] = depth[id] + 1;
      queue.push(c);
    }
  }
  const rows = {};
  const pos = {};
  for (const n of outline.nodes) {
    const d = depth[n.id] || 0;
    rows[d] = (rows[d] || 0) + 1;
    pos[n.id] = { x: 80 + d * 160, y: 40 + (rows[d] - 1) * 70 };
  }
  return pos;
}

async function loadStructure(name) {
  const res = await fetch("/api/structure?expr=" + encodeURIComponent(name));
  const body = await res.json();
  const scene = document.getElementById("scene");
  scene.innerHTML = "";
  if (body.error) {
    document.getElementById("summary").textContent = "error: " + body.error;
    return;
  }
  document.getElementById("summary").textContent =
    body.name + ": " + body.summary + (body.truncated ? " (truncated)" : "");
  const pos = layout(body);
  for (const e of body.edges) {
    const a = pos[e.from], b = pos[e.to];
    if (!a || !b) continue;
    const line = document.createElementNS(svgns, "line");
    line.setAttribute("class", "edge");
    line.setAttribute("x1", a.x); line.setAttribute("y1", a.y);
    line.setAttribute("x2", b.x); line.setAttribute("y2", b.y);
    scene.appendChild(line);
    if (e.label) {
      const t = document.createElementNS(svgns, "text");
      t.setAttribute("class", "edgelabel");
      t.setAttribute("x", (a.x + b.x) / 2); t.setAttribute("y", (a.y + b.y) / 2 - 4);
      t.textContent = e.label;
      scene.appendChild(t);
    }
  }
  for (const n of body.nodes) {
    const p = pos[n.id];
    const g = document.createElementNS(svgns, "g");
    g.setAttribute("class", "node");
    const r = document.createElementNS(svgns, "rect");
    r.setAttribute("x", p.x - 45); r.setAttribute("y", p.y - 16);
    r.setAttribute("width", 90); r.setAttribute("height", 32);
    r.setAttribute("rx", body.kind === "graph" ? 16 : 4);
    g.appendChild(r);
    const t = document.createElementNS(svgns, "text");
    t.setAttribute("x", p.x); t.setAttribute("y", p.y + 4);
    t.setAttribute("text-anchor", "middle");
    t.textContent = n.label.length > 12 ? n.label.slice(0, 11) + "…" : n.label;
    g.appendChild(t);
    scene.appendChild(g);
  }
}

loadVars();
</script>
</body>
</html>
`
