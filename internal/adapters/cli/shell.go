package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/habitmaster/core/internal/domain/entities"
	"github.com/habitmaster/core/internal/ports"
)

// Shell is the interactive menu loop around the habit service
type Shell struct {
	habits  ports.HabitService
	in      *bufio.Scanner
	printer *Printer
}

// NewShell creates a shell reading answers from in and writing to out
func NewShell(habits ports.HabitService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		habits:  habits,
		in:      bufio.NewScanner(in),
		printer: NewPrinter(out),
	}
}

// Run shows the menu until the user exits or input ends. Only errors the
// user cannot act on, such as a failed save, are returned.
func (s *Shell) Run(ctx context.Context) error {
	s.printer.Println("Welcome to the Habit Tracker!")

	for {
		s.printMenu()
		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			s.printer.Println()
			s.printer.Println("Goodbye!")
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = s.addHabit(ctx)
		case "2":
			err = s.markHabit(ctx)
		case "3":
			err = s.viewHabits(ctx)
		case "4":
			err = s.viewStreaks(ctx)
		case "5":
			s.printer.Println("Goodbye!")
			return nil
		default:
			s.printer.Println("Invalid choice. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) printMenu() {
	s.printer.Println()
	s.printer.Println("Menu:")
	s.printer.Println("1. Add Habit")
	s.printer.Println("2. Mark Habit as Completed")
	s.printer.Println("3. View All Habits")
	s.printer.Println("4. View Streaks")
	s.printer.Println("5. Exit")
}

// prompt returns the trimmed answer, or false once input is exhausted
func (s *Shell) prompt(question string) (string, bool) {
	s.printer.Printf("%s", question)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) addHabit(ctx context.Context) error {
	name, ok := s.prompt("Enter the habit name: ")
	if !ok {
		return nil
	}
	category, ok := s.prompt("Enter the category for this habit (e.g., health, productivity): ")
	if !ok {
		return nil
	}

	_, err := s.habits.AddHabit(ctx, ports.AddHabitRequest{Name: name, Category: category})
	switch {
	case err == nil:
		s.printer.Printf("Habit '%s' added successfully!\n", name)
	case errors.Is(err, entities.ErrDuplicateHabit):
		s.printer.Printf("Habit '%s' already exists.\n", name)
	case errors.Is(err, entities.ErrInvalidInput):
		s.printer.Printf("Invalid habit: %v\n", err)
	default:
		return err
	}
	return nil
}

func (s *Shell) markHabit(ctx context.Context) error {
	name, ok := s.prompt("Enter the habit name to mark as completed: ")
	if !ok {
		return nil
	}

	result, err := s.habits.MarkCompleted(ctx, ports.MarkCompletedRequest{Name: name})
	switch {
	case err == nil && result.Marked:
		s.printer.Printf("Habit '%s' marked as completed for %s\n", name, result.Date)
	case err == nil:
		s.printer.Println("Habit already marked as completed for today.")
	case errors.Is(err, entities.ErrHabitNotFound), errors.Is(err, entities.ErrInvalidInput):
		s.printer.Println("Habit not found. Please add the habit first.")
	default:
		return err
	}
	return nil
}

func (s *Shell) viewHabits(ctx context.Context) error {
	habits, err := s.habits.ListHabits(ctx)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	s.printer.Habits(habits)
	return nil
}

func (s *Shell) viewStreaks(ctx context.Context) error {
	streaks, err := s.habits.ViewStreaks(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute streaks: %w", err)
	}
	s.printer.Streaks(streaks)
	return nil
}
