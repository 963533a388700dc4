package parser

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"time"

	"raidtracker/internal/constants"
	"raidtracker/internal/domain"
)

// Leading timestamp of every combat log line: "4/21 22:54:13.456  ".
var reLineHeader = regexp.MustCompile(`^(\d+)/(\d+) (\d+):(\d+):(\d+)\.(\d+)  (.*)$`)

// ParseLog reads a whole combat log and returns the merged, ordered
// event stream. The log format carries no year; the caller supplies
// it from the upload metadata.
func (p *Parser) ParseLog(r io.Reader, year int) ([]domain.Event, error) {
	var events []domain.Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ts, content, ok := splitLine(scanner.Text(), year)
		if !ok {
			continue
		}
		events = append(events, p.ParseLine(ts, content)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.PostProcess(events), nil
}

func splitLine(line string, year int) (uint64, string, bool) {
	m := reLineHeader.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	month, _ := parseAmount(m[1])
	day, _ := parseAmount(m[2])
	hour, _ := parseAmount(m[3])
	minute, _ := parseAmount(m[4])
	second, _ := parseAmount(m[5])
	millis, _ := parseAmount(m[6])
	t := time.Date(year, time.Month(month), int(day), int(hour), int(minute), int(second), int(millis)*int(time.Millisecond), time.UTC)
	return uint64(t.UnixMilli()), m[7], true
}

// PostProcess merges the bonus events and pet summons into the
// stream, back-fills dispel casters, and restores timestamp order.
func (p *Parser) PostProcess(events []domain.Event) []domain.Event {
	backfillDispelCasters(events)

	events = append(events, p.bonus...)
	p.bonus = nil
	// Summons merge exactly once; re-processing an already merged
	// stream must not duplicate them.
	if !p.summonsMerged {
		events = append(events, p.tracker.SummonEvents()...)
		p.summonsMerged = true
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	for i := range events {
		events[i].ID = uint64(i + 1)
	}
	return events
}

// backfillDispelCasters pairs each dispel with the next cast on the
// same target within the dispel cast window; the aura removal line
// itself never names the dispeller.
func backfillDispelCasters(events []domain.Event) {
	lastDispel := -1
	for i := range events {
		switch kind := events[i].Kind.(type) {
		case domain.Dispel:
			lastDispel = i
		case domain.SpellCast:
			if lastDispel < 0 || kind.Target == nil {
				continue
			}
			if events[i].Timestamp-events[lastDispel].Timestamp > constants.DispelCastWindow {
				lastDispel = -1
				continue
			}
			dispel := events[lastDispel].Kind.(domain.Dispel)
			if dispel.Target.UnitID != kind.Target.UnitID {
				continue
			}
			events[lastDispel].Subject = events[i].Subject
			dispel.DispelSpellID = kind.SpellID
			events[lastDispel].Kind = dispel
			lastDispel = -1
		}
	}
}
