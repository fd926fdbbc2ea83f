package catalog

import (
	"path"
	"strings"
)

// FileTypeInfo describes how records of one type are presented: the
// label shown in the type filter, a hex color hint for the UI and an
// icon family identifier.
type FileTypeInfo struct {
	Label     string
	ColorHint string
	IconID    string
}

// Color hints per icon family. Kept as plain hex strings so the UI can
// feed them to its styling layer without conversion.
const (
	colorDocument     = "#e0544c"
	colorSpreadsheet  = "#3fa45c"
	colorPresentation = "#d97b33"
	colorText         = "#a8a8a8"
	colorImage        = "#b36bd4"
	colorAudio        = "#4fc1c9"
	colorVideo        = "#e06ca8"
	colorArchive      = "#c9a227"
	colorBinary       = "#7a7f8a"
	colorData         = "#5cb8a6"
	colorCode         = "#6a9fb5"
	colorDisk         = "#8a6fd1"
	colorGeneric      = "#9e9e9e"
)

// typeTable maps lowercase filename extensions to display info.
// Variants of the same format share one label so the type filter stays
// short (jpeg and jpg both count as JPG). Extensions not listed here
// classify as a generic file labeled with the uppercased extension.
var typeTable = map[string]FileTypeInfo{
	// Documents.
	"pdf":  {Label: "PDF", ColorHint: colorDocument, IconID: "document"},
	"doc":  {Label: "DOC", ColorHint: colorDocument, IconID: "document"},
	"docx": {Label: "DOC", ColorHint: colorDocument, IconID: "document"},
	"rtf":  {Label: "DOC", ColorHint: colorDocument, IconID: "document"},
	"odt":  {Label: "DOC", ColorHint: colorDocument, IconID: "document"},

	// Spreadsheets.
	"xls":  {Label: "XLS", ColorHint: colorSpreadsheet, IconID: "spreadsheet"},
	"xlsx": {Label: "XLS", ColorHint: colorSpreadsheet, IconID: "spreadsheet"},
	"ods":  {Label: "XLS", ColorHint: colorSpreadsheet, IconID: "spreadsheet"},
	"csv":  {Label: "CSV", ColorHint: colorSpreadsheet, IconID: "spreadsheet"},
	"tsv":  {Label: "CSV", ColorHint: colorSpreadsheet, IconID: "spreadsheet"},

	// Presentations.
	"ppt":  {Label: "PPT", ColorHint: colorPresentation, IconID: "presentation"},
	"pptx": {Label: "PPT", ColorHint: colorPresentation, IconID: "presentation"},
	"odp":  {Label: "PPT", ColorHint: colorPresentation, IconID: "presentation"},

	// Plain text.
	"txt": {Label: "TXT", ColorHint: colorText, IconID: "text"},
	"md":  {Label: "MD", ColorHint: colorText, IconID: "text"},
	"log": {Label: "LOG", ColorHint: colorText, IconID: "text"},

	// Images.
	"jpg":  {Label: "JPG", ColorHint: colorImage, IconID: "image"},
	"jpeg": {Label: "JPG", ColorHint: colorImage, IconID: "image"},
	"png":  {Label: "PNG", ColorHint: colorImage, IconID: "image"},
	"gif":  {Label: "GIF", ColorHint: colorImage, IconID: "image"},
	"bmp":  {Label: "BMP", ColorHint: colorImage, IconID: "image"},
	"svg":  {Label: "SVG", ColorHint: colorImage, IconID: "image"},
	"webp": {Label: "WEBP", ColorHint: colorImage, IconID: "image"},
	"tif":  {Label: "TIF", ColorHint: colorImage, IconID: "image"},
	"tiff": {Label: "TIF", ColorHint: colorImage, IconID: "image"},
	"ico":  {Label: "ICO", ColorHint: colorImage, IconID: "image"},

	// Audio.
	"mp3":  {Label: "MP3", ColorHint: colorAudio, IconID: "audio"},
	"wav":  {Label: "WAV", ColorHint: colorAudio, IconID: "audio"},
	"flac": {Label: "FLAC", ColorHint: colorAudio, IconID: "audio"},
	"ogg":  {Label: "OGG", ColorHint: colorAudio, IconID: "audio"},
	"m4a":  {Label: "M4A", ColorHint: colorAudio, IconID: "audio"},

	// Video.
	"mp4":  {Label: "MP4", ColorHint: colorVideo, IconID: "video"},
	"mov":  {Label: "MOV", ColorHint: colorVideo, IconID: "video"},
	"avi":  {Label: "AVI", ColorHint: colorVideo, IconID: "video"},
	"mkv":  {Label: "MKV", ColorHint: colorVideo, IconID: "video"},
	"webm": {Label: "WEBM", ColorHint: colorVideo, IconID: "video"},
	"wmv":  {Label: "WMV", ColorHint: colorVideo, IconID: "video"},

	// Archives.
	"zip": {Label: "ZIP", ColorHint: colorArchive, IconID: "archive"},
	"rar": {Label: "RAR", ColorHint: colorArchive, IconID: "archive"},
	"7z":  {Label: "7Z", ColorHint: colorArchive, IconID: "archive"},
	"tar": {Label: "TAR", ColorHint: colorArchive, IconID: "archive"},
	"gz":  {Label: "GZ", ColorHint: colorArchive, IconID: "archive"},
	"tgz": {Label: "GZ", ColorHint: colorArchive, IconID: "archive"},
	"bz2": {Label: "BZ2", ColorHint: colorArchive, IconID: "archive"},
	"xz":  {Label: "XZ", ColorHint: colorArchive, IconID: "archive"},

	// Executables and packages.
	"exe": {Label: "EXE", ColorHint: colorBinary, IconID: "binary"},
	"msi": {Label: "MSI", ColorHint: colorBinary, IconID: "binary"},
	"dmg": {Label: "DMG", ColorHint: colorBinary, IconID: "binary"},
	"deb": {Label: "DEB", ColorHint: colorBinary, IconID: "binary"},
	"rpm": {Label: "RPM", ColorHint: colorBinary, IconID: "binary"},
	"apk": {Label: "APK", ColorHint: colorBinary, IconID: "binary"},
	"jar": {Label: "JAR", ColorHint: colorBinary, IconID: "binary"},
	"bin": {Label: "BIN", ColorHint: colorBinary, IconID: "binary"},
	"dat": {Label: "DAT", ColorHint: colorBinary, IconID: "binary"},

	// Structured data.
	"json":    {Label: "JSON", ColorHint: colorData, IconID: "data"},
	"xml":     {Label: "XML", ColorHint: colorData, IconID: "data"},
	"yaml":    {Label: "YAML", ColorHint: colorData, IconID: "data"},
	"yml":     {Label: "YAML", ColorHint: colorData, IconID: "data"},
	"toml":    {Label: "TOML", ColorHint: colorData, IconID: "data"},
	"parquet": {Label: "PARQUET", ColorHint: colorData, IconID: "data"},
	"avro":    {Label: "AVRO", ColorHint: colorData, IconID: "data"},
	"orc":     {Label: "ORC", ColorHint: colorData, IconID: "data"},
	"sql":     {Label: "SQL", ColorHint: colorData, IconID: "data"},
	"db":      {Label: "DB", ColorHint: colorData, IconID: "data"},
	"sqlite":  {Label: "DB", ColorHint: colorData, IconID: "data"},

	// Source code and markup.
	"go":   {Label: "GO", ColorHint: colorCode, IconID: "code"},
	"py":   {Label: "PY", ColorHint: colorCode, IconID: "code"},
	"js":   {Label: "JS", ColorHint: colorCode, IconID: "code"},
	"ts":   {Label: "TS", ColorHint: colorCode, IconID: "code"},
	"java": {Label: "JAVA", ColorHint: colorCode, IconID: "code"},
	"c":    {Label: "C", ColorHint: colorCode, IconID: "code"},
	"cpp":  {Label: "CPP", ColorHint: colorCode, IconID: "code"},
	"h":    {Label: "H", ColorHint: colorCode, IconID: "code"},
	"rs":   {Label: "RS", ColorHint: colorCode, IconID: "code"},
	"rb":   {Label: "RB", ColorHint: colorCode, IconID: "code"},
	"sh":   {Label: "SH", ColorHint: colorCode, IconID: "code"},
	"ps1":  {Label: "PS1", ColorHint: colorCode, IconID: "code"},
	"html": {Label: "HTML", ColorHint: colorCode, IconID: "code"},
	"htm":  {Label: "HTML", ColorHint: colorCode, IconID: "code"},
	"css":  {Label: "CSS", ColorHint: colorCode, IconID: "code"},

	// Disk images.
	"iso":  {Label: "ISO", ColorHint: colorDisk, IconID: "disk"},
	"img":  {Label: "IMG", ColorHint: colorDisk, IconID: "disk"},
	"vhd":  {Label: "VHD", ColorHint: colorDisk, IconID: "disk"},
	"vhdx": {Label: "VHD", ColorHint: colorDisk, IconID: "disk"},
	"vmdk": {Label: "VMDK", ColorHint: colorDisk, IconID: "disk"},
}

// UnknownLabel is the label assigned to records without a filename
// extension.
const UnknownLabel = "unknown"

// classifyName derives type info from the lowercase extension of the
// final path segment of name.
func classifyName(name string) FileTypeInfo {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return FileTypeInfo{Label: UnknownLabel, ColorHint: colorGeneric, IconID: "file"}
	}
	if info, ok := typeTable[ext]; ok {
		return info
	}
	return FileTypeInfo{Label: strings.ToUpper(ext), ColorHint: colorGeneric, IconID: "file"}
}
