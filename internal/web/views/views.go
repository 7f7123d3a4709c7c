// Package views renders the paste page and its HTML fragments. The
// components live in the .templ files; run `templ generate` after editing
// them and commit the *_templ.go output.
package views

//go:generate templ generate

import "strings"

func joinTags(tags []string) string {
	return strings.Join(tags, " ")
}

func joinFields(fields []string) string {
	return strings.Join(fields, ", ")
}

const pageCSS = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1d2330}
main{max-width:960px;margin:2rem auto;padding:0 1rem}
textarea{width:100%;font-family:ui-monospace,monospace;font-size:.9rem;box-sizing:border-box}
.controls,.actions{display:flex;gap:1rem;margin:.75rem 0;align-items:center;flex-wrap:wrap}
.status{display:block;min-height:1.2rem;color:#555;font-size:.9rem}
.status-ok{color:#1a7f37}
.status-error{color:#8a1c1c}
button{padding:.4rem .9rem;border:1px solid #bbb;border-radius:4px;background:#fff;cursor:pointer}
button.primary{background:#2457d6;color:#fff;border-color:#2457d6}
.alert{padding:.75rem 1rem;border-radius:4px;margin:1rem 0}
.alert-error{background:#fde8e8;color:#8a1c1c}
.alert-success{background:#e6f6ea;color:#1a5b2c}
.alert-info{background:#e8f0fe;color:#1c3d8a}
table{border-collapse:collapse;width:100%;background:#fff}
td,th{border:1px solid #ddd;padding:.3rem .5rem;text-align:left;font-size:.85rem}
tr.empty td{color:#999;font-style:italic}
.muted{color:#888}
`

const pageJS = `
(function(){
  var form=document.getElementById('paste-form');
  var status=document.getElementById('status');
  var result=document.getElementById('result');
  var timer=null;
  function post(path,done){
    fetch(path,{method:'POST',body:new URLSearchParams(new FormData(form))})
      .then(function(r){return r.text()}).then(done);
  }
  function detect(){
    post('/detect',function(html){status.outerHTML=html;status=document.getElementById('status');});
  }
  function schedule(){clearTimeout(timer);timer=setTimeout(detect,250);}
  document.getElementById('text').addEventListener('input',schedule);
  document.getElementById('delimiter').addEventListener('change',detect);
  form.querySelectorAll('button[data-action]').forEach(function(b){
    b.addEventListener('click',function(){
      b.disabled=true;
      post(b.getAttribute('data-action'),function(html){result.innerHTML=html;b.disabled=false;});
    });
  });
})();
`
