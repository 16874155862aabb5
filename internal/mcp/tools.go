package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/followup/internal/domain/client"
)

type addClientParams struct {
	Name         string `json:"name" jsonschema:"Company display name"`
	NextFollowUp string `json:"next_follow_up,omitempty" jsonschema:"Next follow-up as YYYY-MM-DDTHH:MM local time; omit for no date"`
}

type listClientsParams struct {
	Query  string `json:"query,omitempty" jsonschema:"Substring match against client names"`
	Filter string `json:"filter,omitempty" jsonschema:"Status bucket: all, today, week, overdue or nodate"`
}

type listClientsResult struct {
	Clients []client.View `json:"clients"`
}

type getClientParams struct {
	ID string `json:"id" jsonschema:"Client id"`
}

type renameClientParams struct {
	ID   string `json:"id" jsonschema:"Client id"`
	Name string `json:"name" jsonschema:"New display name; empty keeps the current one"`
}

type setFollowUpParams struct {
	ID           string `json:"id" jsonschema:"Client id"`
	NextFollowUp string `json:"next_follow_up,omitempty" jsonschema:"Next follow-up as YYYY-MM-DDTHH:MM local time; omit to clear"`
}

type markDoneParams struct {
	ID   string `json:"id" jsonschema:"Client id"`
	Days int    `json:"days,omitempty" jsonschema:"Days until the next follow-up; default 7, minimum 1"`
}

type addNoteParams struct {
	ID   string `json:"id" jsonschema:"Client id"`
	Text string `json:"text" jsonschema:"Note text"`
}

type deleteNoteParams struct {
	ClientID string `json:"client_id" jsonschema:"Client id"`
	NoteID   string `json:"note_id" jsonschema:"Note id"`
	Confirm  bool   `json:"confirm" jsonschema:"Must be true to delete the note"`
}

type deleteClientParams struct {
	ID      string `json:"id" jsonschema:"Client id"`
	Confirm bool   `json:"confirm" jsonschema:"Must be true to delete the client and its note history"`
}

type statusResult struct {
	Status string `json:"status"`
}

type exportBackupResult struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type importBackupParams struct {
	Content string `json:"content" jsonschema:"JSON content of a backup produced by export_backup"`
	Confirm bool   `json:"confirm" jsonschema:"Must be true; the import replaces all current data"`
}

type importBackupResult struct {
	Imported int `json:"imported"`
}

// handlers binds the tool callbacks to the tracker service.
type handlers struct {
	svc TrackerService
}

func (h handlers) addClient(ctx context.Context, req *sdkmcp.CallToolRequest, in addClientParams) (*sdkmcp.CallToolResult, client.View, error) {
	view, err := h.svc.Add(ctx, in.Name, client.ParseDateTime(in.NextFollowUp))
	if err != nil {
		return nil, client.View{}, mapError(err)
	}
	return nil, view, nil
}

func (h handlers) listClients(ctx context.Context, req *sdkmcp.CallToolRequest, in listClientsParams) (*sdkmcp.CallToolResult, listClientsResult, error) {
	filter, err := client.ParseFilter(in.Filter)
	if err != nil {
		return nil, listClientsResult{}, mapError(err)
	}
	views := h.svc.List(ctx, client.ListOptions{Query: in.Query, Filter: filter})
	return nil, listClientsResult{Clients: views}, nil
}

func (h handlers) getClient(ctx context.Context, req *sdkmcp.CallToolRequest, in getClientParams) (*sdkmcp.CallToolResult, client.View, error) {
	view, err := h.svc.Get(ctx, in.ID)
	if err != nil {
		return nil, client.View{}, mapError(err)
	}
	return nil, view, nil
}

func (h handlers) renameClient(ctx context.Context, req *sdkmcp.CallToolRequest, in renameClientParams) (*sdkmcp.CallToolResult, client.View, error) {
	view, err := h.svc.Rename(ctx, in.ID, in.Name)
	if err != nil {
		return nil, client.View{}, mapError(err)
	}
	return nil, view, nil
}

func (h handlers) setFollowUp(ctx context.Context, req *sdkmcp.CallToolRequest, in setFollowUpParams) (*sdkmcp.CallToolResult, client.View, error) {
	view, err := h.svc.Reschedule(ctx, in.ID, client.ParseDateTime(in.NextFollowUp))
	if err != nil {
		return nil, client.View{}, mapError(err)
	}
	return nil, view, nil
}

func (h handlers) markDone(ctx context.Context, req *sdkmcp.CallToolRequest, in markDoneParams) (*sdkmcp.CallToolResult, client.View, error) {
	view, err := h.svc.MarkDone(ctx, in.ID, in.Days)
	if err != nil {
		return nil, client.View{}, mapError(err)
	}
	return nil, view, nil
}

func (h handlers) addNote(ctx context.Context, req *sdkmcp.CallToolRequest, in addNoteParams) (*sdkmcp.CallToolResult, client.Note, error) {
	note, err := h.svc.AddNote(ctx, in.ID, in.Text)
	if err != nil {
		return nil, client.Note{}, mapError(err)
	}
	return nil, note, nil
}

func (h handlers) deleteNote(ctx context.Context, req *sdkmcp.CallToolRequest, in deleteNoteParams) (*sdkmcp.CallToolResult, statusResult, error) {
	if !in.Confirm {
		return nil, statusResult{}, mapError(client.ErrDeclined)
	}
	if err := h.svc.DeleteNote(ctx, in.ClientID, in.NoteID); err != nil {
		return nil, statusResult{}, mapError(err)
	}
	return nil, statusResult{Status: "deleted"}, nil
}

func (h handlers) deleteClient(ctx context.Context, req *sdkmcp.CallToolRequest, in deleteClientParams) (*sdkmcp.CallToolResult, statusResult, error) {
	if !in.Confirm {
		return nil, statusResult{}, mapError(client.ErrDeclined)
	}
	if err := h.svc.Delete(ctx, in.ID); err != nil {
		return nil, statusResult{}, mapError(err)
	}
	return nil, statusResult{Status: "deleted"}, nil
}

func (h handlers) exportBackup(ctx context.Context, req *sdkmcp.CallToolRequest, in struct{}) (*sdkmcp.CallToolResult, exportBackupResult, error) {
	data, filename, err := h.svc.Export(ctx)
	if err != nil {
		return nil, exportBackupResult{}, mapError(err)
	}
	return nil, exportBackupResult{Filename: filename, Content: string(data)}, nil
}

func (h handlers) importBackup(ctx context.Context, req *sdkmcp.CallToolRequest, in importBackupParams) (*sdkmcp.CallToolResult, importBackupResult, error) {
	if !in.Confirm {
		return nil, importBackupResult{}, mapError(client.ErrDeclined)
	}
	n, err := h.svc.Import(ctx, []byte(in.Content))
	if err != nil {
		return nil, importBackupResult{}, mapError(err)
	}
	return nil, importBackupResult{Imported: n}, nil
}

func registerTools(server *sdkmcp.Server, svc TrackerService) {
	h := handlers{svc: svc}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_client",
		Description: "Add a client with an optional next follow-up date",
	}, h.addClient)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_clients",
		Description: "List clients sorted by follow-up urgency, optionally filtered by name substring and status bucket",
	}, h.listClients)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_client",
		Description: "Get a client's details and note history, most recent note first",
	}, h.getClient)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rename_client",
		Description: "Rename a client; empty input keeps the current name",
	}, h.renameClient)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_follow_up",
		Description: "Set or clear a client's next follow-up date",
	}, h.setFollowUp)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "mark_done",
		Description: "Mark the current follow-up as completed and schedule the next one",
	}, h.markDone)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_note",
		Description: "Append a note to a client's history",
	}, h.addNote)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note from a client's history; requires confirm=true",
	}, h.deleteNote)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_client",
		Description: "Delete a client and its entire note history; requires confirm=true",
	}, h.deleteClient)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_backup",
		Description: "Export the full client dataset as pretty-printed JSON",
	}, h.exportBackup)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_backup",
		Description: "Replace the full client dataset from a backup; requires confirm=true",
	}, h.importBackup)
}
