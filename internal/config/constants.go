package config

import "time"

// Base application details
const AppName = "tint"
const Version = "0.1.0"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml"
const DefaultYAMLConfigFileName = "config.yaml"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Editing
const DefaultHistoryLimit = 0 // Unlimited
const DefaultQueueSize = 16
const DefaultRegionStep = 10 // Pixels per region move

// Export
const DefaultExportDirectory = "~/Pictures/tint"
const DefaultExportFormat = "png"
const DefaultExportQuality = 95
