package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahlgren/tavla/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewWithDir() error = %v", err)
	}
	return s
}

func TestSaveAndLoadBoard(t *testing.T) {
	s := newTestStore(t)
	board := domain.NewBoard("work")
	id, _ := board.AddTask(0, "write docs", testNow)
	board.UpdateTaskDescription(0, id, "outline first", testNow)

	if err := s.SaveBoard("work", board); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}
	loaded, err := s.LoadBoard("work", testNow)
	if err != nil {
		t.Fatalf("LoadBoard() error = %v", err)
	}
	if loaded.Name != "work" || loaded.NextTaskID != board.NextTaskID {
		t.Fatalf("loaded = %+v", loaded)
	}
	task, _, ok := loaded.GetTask(id)
	if !ok || task.Title != "write docs" || *task.Description != "outline first" {
		t.Fatalf("loaded task = %+v", task)
	}
}

func TestLoadMissingBoard(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadBoard("nope", testNow)
	if !errors.Is(err, ErrBoardNotFound) {
		t.Fatalf("err = %v, want ErrBoardNotFound", err)
	}
}

func TestSaveRegistersBoardInMetadata(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveBoard("work", domain.NewBoard("work")); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}
	if err := s.SaveBoard("home", domain.NewBoard("home")); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}
	boards, err := s.ListBoards()
	if err != nil {
		t.Fatalf("ListBoards() error = %v", err)
	}
	if len(boards) != 2 || boards[0] != "work" || boards[1] != "home" {
		t.Fatalf("boards = %v", boards)
	}
}

func TestActiveBoardEmptyWhenUnset(t *testing.T) {
	s := newTestStore(t)
	name, err := s.ActiveBoardName()
	if err != nil {
		t.Fatalf("ActiveBoardName() error = %v", err)
	}
	if name != "" {
		t.Fatalf("active = %q, want empty", name)
	}
}

func TestSetActiveBoardRegistersName(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetActiveBoardName("side"); err != nil {
		t.Fatalf("SetActiveBoardName() error = %v", err)
	}
	name, err := s.ActiveBoardName()
	if err != nil {
		t.Fatalf("ActiveBoardName() error = %v", err)
	}
	if name != "side" {
		t.Fatalf("active = %q", name)
	}
	boards, _ := s.ListBoards()
	if len(boards) != 1 || boards[0] != "side" {
		t.Fatalf("boards = %v", boards)
	}
}

func TestDeleteBoardReassignsActive(t *testing.T) {
	s := newTestStore(t)
	s.SaveBoard("x", domain.NewBoard("x"))
	s.SaveBoard("y", domain.NewBoard("y"))
	if err := s.SetActiveBoardName("x"); err != nil {
		t.Fatalf("SetActiveBoardName() error = %v", err)
	}
	if err := s.DeleteBoard("x"); err != nil {
		t.Fatalf("DeleteBoard() error = %v", err)
	}
	if s.BoardExists("x") {
		t.Fatal("deleted board file still present")
	}
	name, _ := s.ActiveBoardName()
	if name != "y" {
		t.Fatalf("active = %q, want y", name)
	}
	boards, _ := s.ListBoards()
	if len(boards) != 1 || boards[0] != "y" {
		t.Fatalf("boards = %v", boards)
	}
}

func TestDeleteLastBoardFallsBackToDefault(t *testing.T) {
	s := newTestStore(t)
	s.SaveBoard("only", domain.NewBoard("only"))
	s.SetActiveBoardName("only")
	if err := s.DeleteBoard("only"); err != nil {
		t.Fatalf("DeleteBoard() error = %v", err)
	}
	name, _ := s.ActiveBoardName()
	if name != DefaultBoardName {
		t.Fatalf("active = %q, want %q", name, DefaultBoardName)
	}
}

func TestLegacyLayoutMigration(t *testing.T) {
	dir := t.TempDir()
	board := domain.NewBoard("legacy")
	board.AddTask(0, "carried over", testNow)

	tmp, err := NewWithDir(filepath.Join(dir, "seed"))
	if err != nil {
		t.Fatalf("NewWithDir() error = %v", err)
	}
	if err := tmp.SaveBoard("seed", board); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}
	content, err := os.ReadFile(tmp.BoardPath("seed"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "board.json"), content, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := NewWithDir(dir)
	if err != nil {
		t.Fatalf("NewWithDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("legacy file still present, stat err = %v", err)
	}
	loaded, err := s.LoadBoard(DefaultBoardName, testNow)
	if err != nil {
		t.Fatalf("LoadBoard() error = %v", err)
	}
	if loaded.TaskCount() != 1 {
		t.Fatalf("migrated board has %d tasks", loaded.TaskCount())
	}
	name, _ := s.ActiveBoardName()
	if name != DefaultBoardName {
		t.Fatalf("active = %q", name)
	}
	boards, _ := s.ListBoards()
	if len(boards) != 1 || boards[0] != DefaultBoardName {
		t.Fatalf("boards = %v", boards)
	}
}

func TestMigrationSkippedWhenMetadataExists(t *testing.T) {
	dir := t.TempDir()
	s, err := NewWithDir(dir)
	if err != nil {
		t.Fatalf("NewWithDir() error = %v", err)
	}
	if err := s.SaveBoard("work", domain.NewBoard("work")); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "board.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := NewWithDir(dir); err != nil {
		t.Fatalf("NewWithDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.json")); err != nil {
		t.Fatalf("stray board.json should be untouched, stat err = %v", err)
	}
}

func TestBoardPathSanitizesName(t *testing.T) {
	s := newTestStore(t)
	path := s.BoardPath("my board/№1")
	base := filepath.Base(path)
	if base != "my-board--1.json" {
		t.Fatalf("sanitized name = %q", base)
	}
	if filepath.Base(s.BoardPath("")) != DefaultBoardName+".json" {
		t.Fatalf("empty name = %q", filepath.Base(s.BoardPath("")))
	}
}

func TestBoardExists(t *testing.T) {
	s := newTestStore(t)
	if s.BoardExists("work") {
		t.Fatal("board should not exist yet")
	}
	s.SaveBoard("work", domain.NewBoard("work"))
	if !s.BoardExists("work") {
		t.Fatal("board should exist after save")
	}
}
