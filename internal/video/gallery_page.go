package video

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vidgallery/vidgallery/internal/httputil"
	"github.com/vidgallery/vidgallery/internal/thumbnail"
	"github.com/vidgallery/vidgallery/internal/validate"
)

var galleryPageTemplate = template.Must(template.New("gallery").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Video Gallery</title>
    <link rel="icon" type="image/svg+xml" href="/static/favicon.svg">
    <style nonce="{{.Nonce}}">
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #0a0a0a;
            color: #ffffff;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            min-height: 100vh;
        }
        .hidden { display: none !important; }
        header {
            display: flex;
            align-items: center;
            justify-content: space-between;
            padding: 1.5rem 2rem;
        }
        header h1 { font-size: 1.5rem; font-weight: 600; }
        .actions { display: flex; gap: 0.5rem; }
        .btn {
            background: #1f2937;
            color: #ffffff;
            border: 1px solid #374151;
            border-radius: 6px;
            padding: 0.5rem 1rem;
            font-size: 0.875rem;
            cursor: pointer;
        }
        .btn.primary { background: #dc2626; border-color: #dc2626; }
        .btn:disabled { opacity: 0.6; cursor: default; }
        .notice { margin: 0 2rem 1rem; color: #9ca3af; font-size: 0.8125rem; }
        #gallery {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(280px, 1fr));
            gap: 1rem;
            padding: 0 2rem 2rem;
        }
        .video-card {
            position: relative;
            border-radius: 8px;
            overflow: hidden;
            background: #111827;
            cursor: pointer;
        }
        .video-card[data-video-type="shorts"] { grid-row: span 2; }
        .video-thumbnail { width: 100%; height: 100%; object-fit: cover; display: block; }
        .video-thumbnail.placeholder {
            background-color: {{.PlaceholderBackground}};
            display: flex;
            align-items: center;
            justify-content: center;
            min-height: {{.PlaceholderMinHeight}}px;
        }
        .play-button {
            position: absolute;
            top: 50%;
            left: 50%;
            width: 56px;
            height: 56px;
            margin: -28px 0 0 -28px;
            border-radius: 50%;
            background: rgba(0, 0, 0, 0.6);
        }
        .play-button::after {
            content: "";
            position: absolute;
            left: 22px;
            top: 17px;
            border-style: solid;
            border-width: 11px 0 11px 18px;
            border-color: transparent transparent transparent #ffffff;
        }
        .video-overlay {
            position: absolute;
            left: 0;
            right: 0;
            bottom: 0;
            padding: 0.75rem;
            background: linear-gradient(transparent, rgba(0, 0, 0, 0.85));
        }
        .video-title { font-size: 0.9375rem; font-weight: 600; }
        .video-type { margin-top: 0.25rem; font-size: 0.75rem; color: #d1d5db; }
        .delete-video-btn {
            position: absolute;
            top: 0.5rem;
            right: 0.5rem;
            width: 28px;
            height: 28px;
            border-radius: 50%;
            border: none;
            background: rgba(220, 38, 38, 0.9);
            color: #ffffff;
            font-size: 1.125rem;
            cursor: pointer;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .modal {
            position: fixed;
            inset: 0;
            background: rgba(0, 0, 0, 0.85);
            display: none;
            align-items: center;
            justify-content: center;
            z-index: 100;
        }
        .modal.active { display: flex; }
        .modal-content {
            position: relative;
            width: min(90vw, 1100px);
            aspect-ratio: 16 / 9;
        }
        .modal-content.shorts { width: min(90vw, 405px); aspect-ratio: 9 / 16; }
        #videoContainer { width: 100%; height: 100%; }
        .close-btn {
            position: absolute;
            top: -2.25rem;
            right: 0;
            background: none;
            border: none;
            color: #ffffff;
            font-size: 2rem;
            cursor: pointer;
        }
        .form-card {
            position: relative;
            width: min(90vw, 420px);
            background: #111827;
            border-radius: 8px;
            padding: 1.5rem;
        }
        .form-card h2 { font-size: 1.125rem; margin-bottom: 1rem; }
        .form-card label { display: block; font-size: 0.8125rem; margin: 0.75rem 0 0.25rem; color: #d1d5db; }
        .form-card input {
            width: 100%;
            padding: 0.5rem;
            border-radius: 6px;
            border: 1px solid #374151;
            background: #0a0a0a;
            color: #ffffff;
        }
        .form-card .close-btn { top: 0.5rem; right: 0.75rem; font-size: 1.5rem; }
        .form-actions { display: flex; justify-content: flex-end; gap: 0.5rem; margin-top: 1.25rem; }
        .form-message { margin-top: 0.75rem; font-size: 0.8125rem; min-height: 1rem; }
        .form-message.success { color: #34d399; }
        .form-message.error { color: #f87171; }
    </style>
</head>
<body data-admin="{{.View.Admin}}" data-authenticated="{{.View.Authenticated}}">
    <header>
        <h1>Video Gallery</h1>
        <div class="actions">
            <button type="button" id="addVideoBtn" class="btn primary{{if not .View.Admin}} hidden{{end}}">Add Video</button>
            <button type="button" id="loginBtn" class="btn{{if .View.Admin}} hidden{{end}}">Login</button>
            <button type="button" id="logoutBtn" class="btn{{if not .View.Admin}} hidden{{end}}">Logout</button>
        </div>
    </header>
    <p class="notice{{if not .View.Fallback}} hidden{{end}}" id="fallbackNotice">Showing the built-in video list.</p>
    <main id="gallery">
        {{range .View.Videos}}
        <div class="video-card" data-order="{{.Order}}" data-video-id="{{.ID}}" data-video-type="{{.Type}}" data-embed-url="{{.EmbedURL}}">
            <img class="video-thumbnail" src="{{index .Thumbnails 0}}" data-candidates="{{join .Thumbnails " "}}" alt="{{.Title}}" loading="lazy">
            <div class="play-button"></div>
            <div class="video-overlay">
                <div class="video-info">
                    <div class="video-title">{{.Title}}</div>
                    <div class="video-type">{{.TypeLabel}}</div>
                </div>
            </div>
            <button type="button" class="delete-video-btn{{if not $.View.Admin}} hidden{{end}}" title="Delete video">&times;</button>
        </div>
        {{end}}
    </main>

    <div class="modal" id="modal">
        <div class="modal-content" id="modalContent">
            <button type="button" class="close-btn" id="closeModal" aria-label="Close">&times;</button>
            <div id="videoContainer"></div>
        </div>
    </div>

    <div class="modal" id="loginModal">
        <form class="form-card" id="loginForm">
            <button type="button" class="close-btn" id="closeLoginModal" aria-label="Close">&times;</button>
            <h2>Admin Login</h2>
            <label for="loginEmail">Email</label>
            <input type="email" id="loginEmail" maxlength="{{.Limits.email}}" required autocomplete="username">
            <label for="loginPassword">Password</label>
            <input type="password" id="loginPassword" required autocomplete="current-password">
            <div class="form-message" id="loginMessage"></div>
            <div class="form-actions">
                <button type="button" class="btn" id="cancelLoginBtn">Cancel</button>
                <button type="submit" class="btn primary">Login</button>
            </div>
        </form>
    </div>

    <div class="modal" id="addVideoModal">
        <form class="form-card" id="addVideoForm">
            <button type="button" class="close-btn" id="closeAddModal" aria-label="Close">&times;</button>
            <h2>Add Video</h2>
            <label for="videoUrl">YouTube URL</label>
            <input type="url" id="videoUrl" maxlength="{{.Limits.videoURL}}" required placeholder="https://youtube.com/watch?v=...">
            <label for="videoTitle">Title (optional)</label>
            <input type="text" id="videoTitle" maxlength="{{.Limits.title}}">
            <div class="form-message" id="formMessage"></div>
            <div class="form-actions">
                <button type="button" class="btn" id="cancelAddBtn">Cancel</button>
                <button type="submit" class="btn primary">Add Video</button>
            </div>
        </form>
    </div>

    <script nonce="{{.Nonce}}">
    (function() {
        var iframeAllow = '{{.PlayerAllow}}';
        var admin = document.body.getAttribute('data-admin') === 'true';
        var authenticated = document.body.getAttribute('data-authenticated') === 'true';
        var gallery = document.getElementById('gallery');

        function loadThumbnailWithFallback(img, urls) {
            var index = 0;
            function tryNext() {
                if (index >= urls.length) {
                    img.onerror = null;
                    img.removeAttribute('src');
                    img.classList.add('placeholder');
                    return;
                }
                img.src = urls[index];
            }
            img.onerror = function() {
                index++;
                tryNext();
            };
            img.onload = function() {
                img.onerror = null;
                img.onload = null;
            };
            if (img.complete && img.naturalWidth === 0 && img.getAttribute('src')) {
                index++;
                tryNext();
            } else if (!img.getAttribute('src')) {
                tryNext();
            }
        }

        function bindCard(card) {
            var img = card.querySelector('.video-thumbnail');
            loadThumbnailWithFallback(img, (img.getAttribute('data-candidates') || '').split(' ').filter(Boolean));
            card.addEventListener('click', function() {
                openModal(card.getAttribute('data-embed-url'), card.getAttribute('data-video-type'));
            });
            card.querySelector('.delete-video-btn').addEventListener('click', function(e) {
                e.stopPropagation();
                if (confirm('Are you sure you want to delete this video?')) {
                    deleteVideo(card.getAttribute('data-video-id'));
                }
            });
        }

        function createVideoCard(video) {
            var card = document.createElement('div');
            card.className = 'video-card';
            card.setAttribute('data-order', video.order);
            card.setAttribute('data-video-id', video.id);
            card.setAttribute('data-video-type', video.type);
            card.setAttribute('data-embed-url', video.embedUrl);

            var img = document.createElement('img');
            img.className = 'video-thumbnail';
            img.alt = video.title;
            img.loading = 'lazy';
            img.setAttribute('data-candidates', video.thumbnails.join(' '));

            var play = document.createElement('div');
            play.className = 'play-button';

            var overlay = document.createElement('div');
            overlay.className = 'video-overlay';
            var info = document.createElement('div');
            info.className = 'video-info';
            var title = document.createElement('div');
            title.className = 'video-title';
            title.textContent = video.title || 'Untitled Video';
            var type = document.createElement('div');
            type.className = 'video-type';
            type.textContent = video.typeLabel;
            info.appendChild(title);
            info.appendChild(type);
            overlay.appendChild(info);

            var del = document.createElement('button');
            del.type = 'button';
            del.className = 'delete-video-btn' + (admin ? '' : ' hidden');
            del.title = 'Delete video';
            del.textContent = '×';

            card.appendChild(img);
            card.appendChild(play);
            card.appendChild(overlay);
            card.appendChild(del);
            bindCard(card);
            return card;
        }

        function renderGallery(videos) {
            gallery.innerHTML = '';
            videos.forEach(function(video) {
                gallery.appendChild(createVideoCard(video));
            });
        }

        function loadVideos() {
            return fetch('/api/videos', { credentials: 'same-origin' })
                .then(function(resp) { return resp.json(); })
                .then(function(data) {
                    renderGallery(data.videos || []);
                    var notice = document.getElementById('fallbackNotice');
                    if (notice) { notice.classList.toggle('hidden', !data.fallback); }
                    updateAuthUI(data.admin);
                })
                .catch(function(err) { console.error('Error loading videos:', err); });
        }

        function updateAuthUI(isAdmin) {
            admin = !!isAdmin;
            document.getElementById('addVideoBtn').classList.toggle('hidden', !admin);
            document.getElementById('loginBtn').classList.toggle('hidden', admin);
            document.getElementById('logoutBtn').classList.toggle('hidden', !admin);
            document.querySelectorAll('.delete-video-btn').forEach(function(btn) {
                btn.classList.toggle('hidden', !admin);
            });
        }

        function requestJSON(method, url, body) {
            return fetch(url, {
                method: method,
                credentials: 'same-origin',
                headers: body ? { 'Content-Type': 'application/json' } : {},
                body: body ? JSON.stringify(body) : undefined
            }).then(function(resp) {
                if (resp.status === 204) { return { ok: true, data: null }; }
                return resp.json().then(function(data) {
                    return { ok: resp.ok, data: data };
                }, function() {
                    return { ok: resp.ok, data: null };
                });
            });
        }

        function openModal(embedUrl, type) {
            var container = document.getElementById('videoContainer');
            container.innerHTML = '';
            var iframe = document.createElement('iframe');
            iframe.src = embedUrl;
            iframe.setAttribute('allow', iframeAllow);
            iframe.setAttribute('allowfullscreen', 'true');
            iframe.setAttribute('frameborder', '0');
            iframe.setAttribute('title', 'YouTube video player');
            iframe.style.width = '100%';
            iframe.style.height = '100%';
            iframe.style.border = 'none';
            container.appendChild(iframe);
            document.getElementById('modalContent').classList.toggle('shorts', type === 'shorts');
            document.getElementById('modal').classList.add('active');
            document.body.style.overflow = 'hidden';
        }

        function closeModal() {
            document.getElementById('modal').classList.remove('active');
            document.getElementById('videoContainer').innerHTML = '';
            document.body.style.overflow = 'auto';
        }

        function setupFormModal(modalId, formId, messageId, closeIds) {
            var modal = document.getElementById(modalId);
            var form = document.getElementById(formId);
            var message = document.getElementById(messageId);
            function close() {
                modal.classList.remove('active');
                document.body.style.overflow = 'auto';
                form.reset();
                message.className = 'form-message';
                message.textContent = '';
            }
            closeIds.forEach(function(id) {
                document.getElementById(id).addEventListener('click', close);
            });
            modal.addEventListener('click', function(e) {
                if (e.target === modal) { close(); }
            });
            return {
                modal: modal,
                form: form,
                open: function() {
                    modal.classList.add('active');
                    document.body.style.overflow = 'hidden';
                },
                close: close,
                show: function(kind, text) {
                    message.className = 'form-message ' + kind;
                    message.textContent = text;
                }
            };
        }

        var login = setupFormModal('loginModal', 'loginForm', 'loginMessage', ['closeLoginModal', 'cancelLoginBtn']);
        var addVideo = setupFormModal('addVideoModal', 'addVideoForm', 'formMessage', ['closeAddModal', 'cancelAddBtn']);

        document.getElementById('loginBtn').addEventListener('click', login.open);
        document.getElementById('addVideoBtn').addEventListener('click', function() {
            if (!admin) {
                alert('You must be logged in to add videos.');
                return;
            }
            addVideo.open();
        });

        login.form.addEventListener('submit', function(e) {
            e.preventDefault();
            var submit = login.form.querySelector('button[type="submit"]');
            submit.disabled = true;
            submit.textContent = 'Logging in...';
            login.show('', '');
            requestJSON('POST', '/api/auth/login', {
                email: document.getElementById('loginEmail').value.trim(),
                password: document.getElementById('loginPassword').value
            }).then(function(result) {
                if (!result.ok) {
                    updateAuthUI(false);
                    login.show('error', (result.data && result.data.error) || 'Login failed. Please try again.');
                    return;
                }
                login.show('success', 'Login successful!');
                updateAuthUI(result.data.admin);
                setTimeout(login.close, 1000);
            }).catch(function() {
                login.show('error', 'Login failed. Please try again.');
            }).then(function() {
                submit.disabled = false;
                submit.textContent = 'Login';
            });
        });

        document.getElementById('logoutBtn').addEventListener('click', function() {
            requestJSON('POST', '/api/auth/logout').catch(function(err) {
                console.error('Logout error:', err);
            }).then(function() {
                updateAuthUI(false);
            });
        });

        addVideo.form.addEventListener('submit', function(e) {
            e.preventDefault();
            var submit = addVideo.form.querySelector('button[type="submit"]');
            submit.disabled = true;
            submit.textContent = 'Adding...';
            addVideo.show('', '');
            requestJSON('POST', '/api/videos', {
                url: document.getElementById('videoUrl').value.trim(),
                title: document.getElementById('videoTitle').value.trim()
            }).then(function(result) {
                if (!result.ok) {
                    addVideo.show('error', (result.data && result.data.error) || 'Failed to add video. Please try again.');
                    return;
                }
                addVideo.show('success', 'Video added successfully!');
                return loadVideos().then(function() {
                    setTimeout(addVideo.close, 1500);
                });
            }).catch(function() {
                addVideo.show('error', 'Failed to add video. Please try again.');
            }).then(function() {
                submit.disabled = false;
                submit.textContent = 'Add Video';
            });
        });

        function deleteVideo(id) {
            if (!admin) {
                alert('You must be logged in as admin to delete videos.');
                return;
            }
            requestJSON('DELETE', '/api/videos/' + encodeURIComponent(id)).then(function(result) {
                if (!result.ok) {
                    alert((result.data && result.data.error) || 'Failed to delete video. Please try again.');
                    return;
                }
                return loadVideos();
            }).catch(function() {
                alert('Failed to delete video. Please try again.');
            });
        }

        document.getElementById('closeModal').addEventListener('click', closeModal);
        document.getElementById('modal').addEventListener('click', function(e) {
            if (e.target.id === 'modal') { closeModal(); }
        });
        document.addEventListener('keydown', function(e) {
            if (e.key !== 'Escape') { return; }
            closeModal();
            if (login.modal.classList.contains('active')) { login.close(); }
            if (addVideo.modal.classList.contains('active')) { addVideo.close(); }
        });

        gallery.querySelectorAll('.video-card').forEach(bindCard);

        if (!authenticated) {
            requestJSON('POST', '/api/auth/refresh').then(function(result) {
                if (result.ok && result.data) { updateAuthUI(result.data.admin); }
            }).catch(function() {});
        }
    })();
    </script>
</body>
</html>`))

type galleryPageData struct {
	Nonce                 string
	View                  *galleryView
	Limits                map[string]int
	PlayerAllow           string
	PlaceholderBackground template.CSS
	PlaceholderMinHeight  int
}

func (h *Handler) GalleryPage(w http.ResponseWriter, r *http.Request) {
	view, unsubscribe := h.loadView(r.Context())
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := galleryPageTemplate.Execute(w, galleryPageData{
		Nonce:                 httputil.NonceFromContext(r.Context()),
		View:                  view,
		Limits:                validate.FieldLimits(),
		PlayerAllow:           playerAllow,
		PlaceholderBackground: template.CSS(thumbnail.PlaceholderBackground),
		PlaceholderMinHeight:  thumbnail.PlaceholderMinHeight,
	}); err != nil {
		slog.Error("video: render gallery page", "error", err)
	}
}
