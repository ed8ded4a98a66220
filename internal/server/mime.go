/*
 * Copyright 2026 The FileRipper Team
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import "strings"

// extensionMime maps the file extensions the gateway expects to serve
// most often to their MIME type. Falls back to application/octet-stream.
var extensionMime = map[string]string{
	"avi":  "video/x-msvideo",
	"bmp":  "image/bmp",
	"css":  "text/css",
	"csv":  "text/csv",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"gz":   "application/gzip",
	"gif":  "image/gif",
	"htm":  "text/html",
	"html": "text/html",
	"ico":  "image/vnd.microsoft.icon",
	"jar":  "application/java-archive",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"js":   "text/javascript",
	"json": "application/json",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"mpeg": "video/mpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
	"php":  "application/x-httpd-php",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"rar":  "application/vnd.rar",
	"rtf":  "application/rtf",
	"sh":   "application/x-sh",
	"svg":  "image/svg+xml",
	"txt":  "text/plain",
	"wav":  "audio/wav",
	"weba": "audio/webm",
	"webm": "video/webm",
	"webp": "image/webp",
	"xml":  "application/xml",
	"zip":  "application/zip",
	"7z":   "application/x-7z-compressed",
}

// extensionToMime returns the best-guess MIME type for ext (with or
// without a leading dot), or application/octet-stream if unknown.
func extensionToMime(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if mime, ok := extensionMime[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
